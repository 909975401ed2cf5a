package bot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"github.com/bwmarrin/discordgo"
	"github.com/retroenv/retrogolib/log"
)

const avatarSize = "1024"

// maxAvatarBytes bounds the fetched image size.
const maxAvatarBytes = 8 * 1024 * 1024

var httpClient = &http.Client{Timeout: 15 * time.Second}

// cmdInvert fetches the profile picture of the mentioned user (or the
// requester), inverts its colors and sends it back as a PNG file.
func (b *Bot) cmdInvert(s *discordgo.Session, m *discordgo.MessageCreate, _ string) {
	user := m.Author
	if len(m.Mentions) > 0 {
		user = m.Mentions[0]
	}
	url := user.AvatarURL(avatarSize)
	if url == "" {
		b.reply(s, m, "Failed to get URL for user")
		return
	}

	data, err := fetchBytes(url, maxAvatarBytes)
	if err != nil {
		b.logger.Error("Fetching avatar failed", log.Err(err))
		b.reply(s, m, "Failed to fetch profile picture")
		return
	}

	inverted, err := invertImage(data)
	if err != nil {
		b.logger.Error("Inverting avatar failed", log.Err(err))
		b.reply(s, m, "Failed to decode profile picture")
		return
	}

	if _, err := s.ChannelFileSend(m.ChannelID, "inverted.png", bytes.NewReader(inverted)); err != nil {
		b.logger.Error("Sending file failed", log.Err(err))
	}
}

// invertImage decodes any supported image format (png, jpeg, gif,
// webp) and re-encodes it as PNG with every RGB channel inverted.
func invertImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := out.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: 0xFF - c.R,
				G: 0xFF - c.G,
				B: 0xFF - c.B,
				A: c.A,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// fetchBytes downloads a URL with a hard size limit.
func fetchBytes(url string, limit int64) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response larger than %d bytes", limit)
	}
	return data, nil
}
