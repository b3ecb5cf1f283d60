// Package message provides the message and attachment structures posted to
// an incoming webhook, with chained setters for building them.
package message

// Field represents a key/value entry rendered inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short *bool  `json:"short,omitempty"`
}

// NewField creates a field with the given title and value.
func NewField(title, value string) Field {
	return Field{
		Title: title,
		Value: value,
	}
}

// WithShort marks whether the field may be rendered side by side with others.
func (f Field) WithShort(short bool) Field {
	f.Short = &short
	return f
}

// Attachment represents a rich-content block rendered alongside or instead
// of the message text. All attributes are optional and unset attributes are
// omitted from the wire payload entirely.
type Attachment struct {
	Title      string  `json:"title,omitempty"`
	TitleLink  string  `json:"title_link,omitempty"`
	Color      string  `json:"color,omitempty"`
	AuthorName string  `json:"author_name,omitempty"`
	AuthorIcon string  `json:"author_icon,omitempty"`
	Text       string  `json:"text,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
	Fields     []Field `json:"fields"`
}

// NewAttachment creates an attachment with all attributes unset and an empty
// field list.
func NewAttachment() *Attachment {
	return &Attachment{
		Fields: make([]Field, 0),
	}
}

// SetTitle sets the attachment title.
func (a *Attachment) SetTitle(title string) *Attachment {
	a.Title = title
	return a
}

// SetTitleLink sets the URL the attachment title links to.
func (a *Attachment) SetTitleLink(link string) *Attachment {
	a.TitleLink = link
	return a
}

// SetColor sets the attachment color bar. Any string is accepted as-is.
func (a *Attachment) SetColor(color string) *Attachment {
	a.Color = color
	return a
}

// SetAuthor sets the attachment author name. The icon is applied only when
// non-empty; calling with an empty icon never sets author_icon.
func (a *Attachment) SetAuthor(name, icon string) *Attachment {
	a.AuthorName = name
	if icon != "" {
		a.AuthorIcon = icon
	}
	return a
}

// SetText sets the attachment body text.
func (a *Attachment) SetText(text string) *Attachment {
	a.Text = text
	return a
}

// SetImageURL sets the attachment image URL.
func (a *Attachment) SetImageURL(url string) *Attachment {
	a.ImageURL = url
	return a
}

// SetFields replaces the entire field list.
func (a *Attachment) SetFields(fields []Field) *Attachment {
	if fields == nil {
		fields = make([]Field, 0)
	}
	a.Fields = fields
	return a
}

// AddField appends a field to the attachment.
func (a *Attachment) AddField(field Field) *Attachment {
	a.Fields = append(a.Fields, field)
	return a
}

// Message represents a message to post: optional text plus an ordered list
// of attachments. Attachment order is preserved and meaningful.
type Message struct {
	Text        string        `json:"text,omitempty"`
	Attachments []*Attachment `json:"attachments"`
}

// New creates an empty message.
func New() *Message {
	return &Message{
		Attachments: make([]*Attachment, 0),
	}
}

// SetText sets the message text.
func (m *Message) SetText(text string) *Message {
	m.Text = text
	return m
}

// SetAttachments replaces the entire attachment list.
func (m *Message) SetAttachments(attachments []*Attachment) *Message {
	if attachments == nil {
		attachments = make([]*Attachment, 0)
	}
	m.Attachments = attachments
	return m
}

// AddAttachment appends an attachment to the message.
func (m *Message) AddAttachment(attachment *Attachment) *Message {
	m.Attachments = append(m.Attachments, attachment)
	return m
}
