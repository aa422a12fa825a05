package order

import "time"

// OrderType values used by the portal to categorise records.
const (
	TypeEPS    = "eps"
	TypeTrade  = "trade"
	TypeMTM    = "mtm"
	TypeManual = "manual"
)

// Record is a snapshot of one portal order. Records are immutable on this
// side: all writes go through the portal update endpoint and are followed by
// a re-fetch. Optional fields are defaulted at the adapter boundary so
// downstream logic never nil-checks.
type Record struct {
	ID                     string  `json:"id"`
	Email                  string  `json:"email"`
	CreatedBy              string  `json:"created_by"`
	CreatedDate            int64   `json:"created_date"` // epoch seconds
	ModifiedTime           string  `json:"modified_time"`
	OrderOpen              bool    `json:"order_open"`
	OrderSearchID          string  `json:"order_search_id"`
	OrderType              string  `json:"order_type"`
	PatientName            string  `json:"patient_name"`
	PharmacyAccountNumber  string  `json:"pharmacy_account_number"`
	PharmacyName           string  `json:"pharmacy_name"`
	PharmacyPostCode       string  `json:"pharmacy_post_code"`
	RecordStatus           string  `json:"record_status"`
	RecordType             string  `json:"record_type"`
	CustomerComment        string  `json:"customer_comment"`
	CustomerRecordStatus   string  `json:"customer_record_status"`
	PrescriptionExemptions string  `json:"prescriptionExemptions"`
	AwardsScriptNumber     string  `json:"awards_script_number"`
	TotalTradePrice        float64 `json:"totalTradePrice"`
}

// HasMessage reports whether the customer has replied on this record (a
// comment or a customer-set status), which front-desk staff triage first.
func (r Record) HasMessage() bool {
	return r.CustomerComment != "" || r.CustomerRecordStatus != ""
}

// FormatCreatedDate renders the created date for display, UTC, in the
// "dd/mm/yyyy h:mm AM" form the console shows in its tables.
func (r Record) FormatCreatedDate() string {
	return time.Unix(r.CreatedDate, 0).UTC().Format("02/01/2006 3:04 PM")
}

// statusValues maps the short status labels used throughout the console to
// the verbatim record_status strings the portal stores. Labels without an
// entry (Comments, Stop) query without a status filter.
var statusValues = map[string]string{
	"OOS":        "Item out of stock, do you want to place on back order?",
	"Invalid":    "Barcode incorrect - please resend in the comments box below or request to cancel the order",
	"Submitted":  "request submitted",
	"Ordered":    "Order placed",
	"RTS":        "Please return this token to the Spine",
	"Downloaded": "Token Downloaded",
	"Call":       "Please call Wardles about this order – 0800 050 1055",
	"Cancelled":  "Order cancelled",
}

// StatusValue resolves a short status label to the portal's record_status
// string. Unknown labels resolve to "" (no status filter).
func StatusValue(label string) string {
	return statusValues[label]
}

// CursorValue is one field of a continuation cursor. The portal returns
// DynamoDB-shaped values; only the string and number members ever appear.
type CursorValue struct {
	S string `json:"S,omitempty"`
	N string `json:"N,omitempty"`
}

// Cursor is the opaque continuation key returned with a truncated page. Its
// fields are echoed back verbatim as query parameters on the next page
// request. An empty cursor marks the final page.
type Cursor map[string]CursorValue
