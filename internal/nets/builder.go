package nets

import (
	"fmt"
	"time"
)

// Defaults observed on the NETS UAT merchant profile. Deployments override
// them through config.
const (
	DefaultTerminalID      = "37066801"
	DefaultMerchantID      = "11137066800"
	DefaultInstitutionCode = "20000000001"
	DefaultSourceAmount    = "00000123"
	DefaultCurrency        = "SGD"
)

type OrderParams struct {
	// Amount must already be the 12-digit zero-padded form (see FormatAmount).
	// The builder does not validate width.
	Amount          string
	Stan            string
	CallbackURL     string
	KeyID           string
	TerminalID      string
	MerchantID      string
	InstitutionCode string
	SourceAmount    string
	Currency        string
}

// FormatAmount renders an amount in cents as the fixed-width numeric string
// the switch expects.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%012d", cents)
}

// BuildOrderRequest assembles a 0200 dynamic-QR order. Date and time fields
// are both derived from the single now instant, local wall clock, so they
// cannot skew across a midnight boundary.
func BuildOrderRequest(p OrderParams, now time.Time) OrderRequest {
	if p.TerminalID == "" {
		p.TerminalID = DefaultTerminalID
	}
	if p.MerchantID == "" {
		p.MerchantID = DefaultMerchantID
	}
	if p.InstitutionCode == "" {
		p.InstitutionCode = DefaultInstitutionCode
	}
	if p.SourceAmount == "" {
		p.SourceAmount = DefaultSourceAmount
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}

	return OrderRequest{
		MTI:             "0200",
		ProcessCode:     "990000",
		Amount:          p.Amount,
		Stan:            p.Stan,
		TransactionDate: now.Format("0102"),
		TransactionTime: now.Format("150405"),
		EntryMode:       "000",
		ConditionCode:   "85",
		InstitutionCode: p.InstitutionCode,
		HostTID:         p.TerminalID,
		HostMID:         p.MerchantID,
		NpxData: NpxData{
			NpxPOSID:          p.TerminalID,
			NpxSourceAmount:   p.SourceAmount,
			NpxSourceCurrency: p.Currency,
		},
		Communication: []CommunicationData{
			{
				Type:        "https_proxy",
				Category:    "URL",
				Destination: p.CallbackURL,
				Addon: map[string]string{
					"external_API_keyID": p.KeyID,
				},
			},
		},
		GetQRCode: "Y",
	}
}
