// Package eml assembles multipart email messages and serializes them to .EML
// byte streams.
package eml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/dauletle/confluence2eml/pipeline"
)

// ErrMIMEGeneration wraps header-construction and serialization failures.
var ErrMIMEGeneration = errors.New("MIME generation failed")

// Default envelope addresses for exported messages; the .eml never actually
// travels through an MTA, so localhost placeholders are fine.
const (
	DefaultFrom = "confluence-exporter@localhost"
	DefaultTo   = "user@localhost"
)

// msgIDDomain tags generated Message-IDs.
const msgIDDomain = "confluence-export"

// Message is the in-memory form of one export: headers, both body renderings,
// and the inline images referenced from the HTML via cid: URIs.
type Message struct {
	Subject   string
	From      string
	To        string
	Date      time.Time
	MessageID string

	PlainText string
	HTML      string

	Images []pipeline.ImageRecord
}

// Generator creates Messages with configurable default addresses.
type Generator struct {
	DefaultFrom string
	DefaultTo   string
}

// NewGenerator returns a Generator with the package defaults.
func NewGenerator() *Generator {
	return &Generator{
		DefaultFrom: DefaultFrom,
		DefaultTo:   DefaultTo,
	}
}

// CreateMessage builds a Message.  Empty plainText derives a fallback from the
// HTML; empty fromAddr/toAddr take the generator defaults.  Each call gets a
// fresh Message-ID.
func (g *Generator) CreateMessage(subject, htmlContent, plainText, fromAddr, toAddr string, images []pipeline.ImageRecord) (*Message, error) {
	if fromAddr == "" {
		fromAddr = g.DefaultFrom
	}
	if toAddr == "" {
		toAddr = g.DefaultTo
	}
	if plainText == "" {
		plainText = DerivePlainText(htmlContent)
	}

	return &Message{
		Subject:   subject,
		From:      fromAddr,
		To:        toAddr,
		Date:      time.Now(),
		MessageID: uuid.NewString() + "@" + msgIDDomain,
		PlainText: plainText,
		HTML:      htmlContent,
		Images:    images,
	}, nil
}

// WriteTo serializes the message in RFC 5322 form: a multipart/alternative
// container with the plain-text part first and the HTML part second (clients
// prefer the last part they understand), followed by one inline part per
// image, each tagged with its Content-ID.
func (m *Message) WriteTo(w io.Writer) error {
	var h mail.Header
	h.SetDate(m.Date)
	h.SetSubject(m.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: m.From}})
	h.SetAddressList("To", []*mail.Address{{Address: m.To}})
	h.SetMessageID(m.MessageID)

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}

	if err := m.writeBody(mw); err != nil {
		return err
	}

	for _, img := range m.Images {
		if err := m.writeInlineImage(mw, img); err != nil {
			return err
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	return nil
}

func (m *Message) writeBody(mw *mail.Writer) error {
	iw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}

	var textHeader mail.InlineHeader
	textHeader.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tw, err := iw.CreatePart(textHeader)
	if err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	if _, err := io.WriteString(tw, m.PlainText); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}

	var htmlHeader mail.InlineHeader
	htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	hw, err := iw.CreatePart(htmlHeader)
	if err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	if _, err := io.WriteString(hw, m.HTML); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	if err := hw.Close(); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}

	if err := iw.Close(); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	return nil
}

func (m *Message) writeInlineImage(mw *mail.Writer, img pipeline.ImageRecord) error {
	var ah mail.AttachmentHeader
	ah.SetContentType(img.MainType()+"/"+img.SubType(), nil)

	params := map[string]string{}
	if img.Filename != "" {
		params["filename"] = img.Filename
	}
	ah.SetContentDisposition("inline", params)
	ah.Set("Content-Id", "<"+img.ContentID+">")

	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	if _, err := aw.Write(img.Data); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("eml: %w: %v", ErrMIMEGeneration, err)
	}
	return nil
}

// SaveToFile serializes the message to path, creating parent directories and
// overwriting whatever is there.  Returns the saved path.
func SaveToFile(m *Message, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		// there's probably a nicer way to express 0750 but meh
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("eml: couldn't create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("eml: couldn't create file %s: %w", path, err)
	}
	defer f.Close()

	if err := m.WriteTo(f); err != nil {
		return "", err
	}

	return path, nil
}
