package token

import "strings"

// BuildReturnMessage assembles the customer reply for a format run: a block
// asking for the selected tokens to be returned to the Spine, followed by a
// block listing invalid tokens by their original pasted text. Returns the
// empty string when there is nothing to say (callers suppress display on "",
// there is no nil sentinel).
func BuildReturnMessage(selected []Token, invalid []Token) string {
	selectedBlock := ""
	if len(selected) > 0 {
		grouped := make([]string, 0, len(selected))
		for _, tok := range selected {
			grouped = append(grouped, RenderGrouped(tok.Normalized))
		}
		selectedBlock = "\nPlease return the following tokens to the spine so that your order can be placed:\n\n" +
			strings.Join(grouped, "\n") + "\n"
	}

	invalidBlock := ""
	if len(invalid) > 0 {
		lead := "The"
		if selectedBlock != "" {
			lead = "Also the"
		}
		originals := make([]string, 0, len(invalid))
		for _, tok := range invalid {
			originals = append(originals, tok.Original)
		}
		invalidBlock = "\n" + lead + " following tokens are invalid:\n\n" +
			strings.Join(originals, "\n ") +
			"\n\nPlease check the values and reply with the correct barcode so that your order can be placed.\n\n"
	}

	if selectedBlock == "" && invalidBlock == "" {
		return ""
	}

	return "Hi, thank you for your e-mail,\n" + selectedBlock + invalidBlock + "\nMany Thanks"
}
