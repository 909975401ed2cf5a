package bot

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ErrNoProgram is returned when a message carries neither inline hex
// nor an attachment.
var ErrNoProgram = errors.New("no program given: attach a binary or pass hex bytes")

// programFromMessage materializes program bytes from the message:
// the first attachment when present, inline hex text otherwise. All
// validation happens here; the harness is never entered with invalid
// bytes or an oversized program.
func (b *Bot) programFromMessage(m *discordgo.MessageCreate, args string) ([]uint8, error) {
	if len(m.Attachments) > 0 {
		att := m.Attachments[0]
		if att.Size > b.cfg.Capacity {
			return nil, fmt.Errorf("attachment is %d bytes but the machine only has %d bytes of memory",
				att.Size, b.cfg.Capacity)
		}
		data, err := fetchBytes(att.URL, int64(b.cfg.Capacity))
		if err != nil {
			return nil, fmt.Errorf("fetching attachment: %w", err)
		}
		return data, nil
	}

	if strings.TrimSpace(args) == "" {
		return nil, ErrNoProgram
	}
	program, err := parseHex(args)
	if err != nil {
		return nil, err
	}
	if len(program) > b.cfg.Capacity {
		return nil, fmt.Errorf("program is %d bytes but the machine only has %d bytes of memory",
			len(program), b.cfg.Capacity)
	}
	return program, nil
}

// parseHex decodes inline hex text. Whitespace and backticks are
// ignored so both `3E 05 76` and fenced blocks decode cleanly.
func parseHex(text string) ([]uint8, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '`', r == ' ', r == '\t', r == '\n', r == '\r':
			return -1
		default:
			return r
		}
	}, text)

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoProgram
	}
	return data, nil
}

// stripCodeFence removes a surrounding Markdown code fence, including
// an optional language tag on the opening line.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		// Drop a language tag if the first line has no spaces.
		first := strings.TrimSpace(text[:i])
		if first != "" && !strings.Contains(first, " ") {
			text = text[i+1:]
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
