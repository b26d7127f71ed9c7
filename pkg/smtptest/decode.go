package smtptest

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// Part is one decoded body part.
type Part struct {
	ContentType string // media type without parameters
	Charset     string
	Encoding    string // Content-Transfer-Encoding as sent
	Body        string // transfer-decoded body
}

// Decoded is a parsed message.
type Decoded struct {
	Header    mail.Header
	MediaType string
	Parts     []Part
}

// Part returns the first part with the given media type.
func (d *Decoded) Part(mediaType string) (Part, bool) {
	for _, p := range d.Parts {
		if p.ContentType == mediaType {
			return p, true
		}
	}
	return Part{}, false
}

// Decode parses raw into headers and transfer-decoded parts. A
// non-multipart message yields a single part.
func Decode(raw []byte) (*Decoded, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("content type: %w", err)
	}

	d := &Decoded{Header: msg.Header, MediaType: mediaType}

	if !strings.HasPrefix(mediaType, "multipart/") {
		p, err := decodePart(mediaType, params["charset"], msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
		if err != nil {
			return nil, err
		}
		d.Parts = append(d.Parts, p)
		return d, nil
	}

	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextRawPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("next part: %w", err)
		}

		pt, pparams, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("part content type: %w", err)
		}

		p, err := decodePart(pt, pparams["charset"], part.Header.Get("Content-Transfer-Encoding"), part)
		if err != nil {
			return nil, err
		}
		d.Parts = append(d.Parts, p)
	}

	return d, nil
}

func decodePart(mediaType, charset, encoding string, r io.Reader) (Part, error) {
	if strings.EqualFold(encoding, "quoted-printable") {
		r = quotedprintable.NewReader(r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return Part{}, fmt.Errorf("read %s part: %w", mediaType, err)
	}
	return Part{
		ContentType: mediaType,
		Charset:     charset,
		Encoding:    encoding,
		Body:        string(body),
	}, nil
}
