package genai

import "strings"

// buildPrompt assembles the model instructions for a template request.
// The output contract is strict: a single self-contained HTML document
// with inline CSS, no markdown, no commentary.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are an expert email template designer. ")
	b.WriteString("Create a complete, professional HTML email template based on the following content.\n\n")
	b.WriteString("Content:\n")
	b.WriteString(req.Content)
	b.WriteString("\n\n")

	if req.DesignPrompt != "" {
		b.WriteString("Design guidance:\n")
		b.WriteString(req.DesignPrompt)
		b.WriteString("\n\n")
	}

	switch {
	case req.HasLogo && req.HasBanner:
		b.WriteString("The email has a logo image and a banner image. ")
		b.WriteString(`Reference them with <img src="cid:logo"> and <img src="cid:banner">. `)
	case req.HasLogo:
		b.WriteString(`The email has a logo image. Reference it with <img src="cid:logo">. `)
	case req.HasBanner:
		b.WriteString(`The email has a banner image. Reference it with <img src="cid:banner">. `)
	}
	if req.PlacementInstructions != "" {
		b.WriteString("Image placement: ")
		b.WriteString(req.PlacementInstructions)
	}
	if req.HasLogo || req.HasBanner || req.PlacementInstructions != "" {
		b.WriteString("\n\n")
	}

	b.WriteString("Requirements:\n")
	b.WriteString("- Output a single complete HTML document, starting with <!DOCTYPE html>.\n")
	b.WriteString("- Use table-based layout and inline CSS only, compatible with major email clients.\n")
	b.WriteString("- Keep the name placeholder [Name] exactly as written wherever the recipient should be addressed.\n")
	b.WriteString("- Do not include markdown, code fences, explanations, or any text outside the HTML.\n")

	return b.String()
}
