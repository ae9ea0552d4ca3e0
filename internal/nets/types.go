package nets

// NpxData carries network-specific tags. Keys outside the well-known set
// below are passed through untouched.
type NpxData map[string]string

// Well-known NPX tags.
const (
	NpxPOSID          = "E103" // POS id, Numeric(8)
	NpxTransactionID  = "E104" // Transaction id, Numeric(10)
	NpxEDCBatchNumber = "E107" // EDC batch number, Numeric(6)
	NpxSourceAmount   = "E201" // Source amount, Numeric(12)
	NpxSourceCurrency = "E202" // Source currency, String(3)
	NpxTargetCurrency = "E204" // Target currency, String(3)
	NpxPaymentTypeID  = "F217" // Payment type id
	NpxBankRef        = "F219" // Bank retrieval ref
	NpxErrorMessage   = "F998" // PWAP error message
	NpxErrorCode      = "F999" // PWAP error code
)

type CommunicationData struct {
	Type        string            `json:"type"`
	Category    string            `json:"category"`
	Destination string            `json:"destination"`
	Addon       map[string]string `json:"addon,omitempty"`
}

// OrderRequest is the 0200 dynamic-QR order message. All numeric-string
// fields are fixed width, zero padded; the switch verifies the signature
// over the exact bytes it receives, so width violations are not locally
// detectable.
type OrderRequest struct {
	MTI             string              `json:"mti"`
	ProcessCode     string              `json:"process_code"`
	Amount          string              `json:"amount"`
	Stan            string              `json:"stan"`
	TransactionDate string              `json:"transaction_date"`
	TransactionTime string              `json:"transaction_time"`
	EntryMode       string              `json:"entry_mode"`
	ConditionCode   string              `json:"condition_code"`
	InstitutionCode string              `json:"institution_code"`
	HostTID         string              `json:"host_tid"`
	HostMID         string              `json:"host_mid"`
	NpxData         NpxData             `json:"npx_data"`
	Communication   []CommunicationData `json:"communication_data,omitempty"`
	GetQRCode       string              `json:"getQRCode,omitempty"`
}

// OrderResponse is the synchronous 0210 reply. TxnIdentifier is the
// durable correlation key (up to 170 chars); QRCode is a base64 PNG when
// inline QR generation was requested.
type OrderResponse struct {
	MTI             string  `json:"mti"`
	ProcessCode     string  `json:"process_code"`
	Amount          string  `json:"amount"`
	Stan            string  `json:"stan"`
	TransactionTime string  `json:"transaction_time"`
	TransactionDate string  `json:"transaction_date"`
	EntryMode       string  `json:"entry_mode"`
	ConditionCode   string  `json:"condition_code"`
	InstitutionCode string  `json:"institution_code"`
	RetrievalRef    string  `json:"retrieval_ref,omitempty"`
	ApprovalCode    string  `json:"approval_code,omitempty"`
	ResponseCode    string  `json:"response_code"`
	HostTID         string  `json:"host_tid"`
	TxnIdentifier   string  `json:"txn_identifier"`
	NpxData         NpxData `json:"npx_data"`
	InvoiceRef      string  `json:"invoice_ref,omitempty"`
	QRCode          string  `json:"qr_code,omitempty"`
}

// TransactionQueryResponse is the asynchronous callback payload posted by
// the switch to the configured communication_data destination.
type TransactionQueryResponse struct {
	MTI             string  `json:"mti"`
	ProcessCode     string  `json:"process_code"`
	SofURI          string  `json:"sof_uri,omitempty"`
	Stan            string  `json:"stan"`
	TransactionTime string  `json:"transaction_time"`
	TransactionDate string  `json:"transaction_date"`
	EntryMode       string  `json:"entry_mode"`
	ConditionCode   string  `json:"condition_code"`
	InstitutionCode string  `json:"institution_code"`
	RetrievalRef    string  `json:"retrieval_ref,omitempty"`
	ApprovalCode    string  `json:"approval_code,omitempty"`
	ResponseCode    string  `json:"response_code"`
	HostTID         string  `json:"host_tid"`
	AcceptorName    string  `json:"acceptor_name,omitempty"`
	TxnIdentifier   string  `json:"txn_identifier"`
	NpxData         NpxData `json:"npx_data"`
	InvoiceRef      string  `json:"invoice_ref,omitempty"`
}
