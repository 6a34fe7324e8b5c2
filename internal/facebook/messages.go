package facebook

// Message is the Send API message body
type Message struct {
	Text       string      `json:"text,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Attachment is a structured message attachment
type Attachment struct {
	Type    string          `json:"type"`
	Payload TemplatePayload `json:"payload"`
}

// TemplatePayload is a generic template payload
type TemplatePayload struct {
	TemplateType string            `json:"template_type"`
	Elements     []TemplateElement `json:"elements"`
}

// TemplateElement is one card in a generic template
type TemplateElement struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is a template button, either web_url or postback
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// TextMessage builds a plain text message
func TextMessage(text string) *Message {
	return &Message{Text: text}
}

// ButtonTemplate builds a single-element generic template with buttons
func ButtonTemplate(title, subtitle string, buttons ...Button) *Message {
	return &Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: TemplatePayload{
				TemplateType: "generic",
				Elements: []TemplateElement{
					{Title: title, Subtitle: subtitle, Buttons: buttons},
				},
			},
		},
	}
}
