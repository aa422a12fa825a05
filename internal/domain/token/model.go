package token

// Token represents a candidate prescription barcode extracted from pasted
// free text. Original keeps the text exactly as pasted so invalid entries can
// be echoed back to the sender for correction.
type Token struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	Valid      bool   `json:"valid"`
}
