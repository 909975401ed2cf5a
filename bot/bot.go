// Package bot is the chat-platform glue around the emulation harness:
// prefix command parsing, program input decoding from inline hex or
// attachments, keyword reactions and delivery of harness output.
package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/retroenv/retrogolib/log"
)

// Config holds the bot's runtime settings.
type Config struct {
	Token     string
	Prefix    string // command prefix, historically "~"
	Capacity  int    // emulated machine memory size in bytes
	Assembler string // external assembler binary for the asm command
}

// keyword reactions applied to ordinary (non-command) messages.
var reactions = []struct {
	keyword string
	emoji   string
}{
	{"fox", "🦊"},
	{"cat", "🐱"},
	{"lemon", "🍋"},
}

type commandFunc func(s *discordgo.Session, m *discordgo.MessageCreate, args string)

// Bot wraps a platform session and the command table.
type Bot struct {
	cfg      Config
	logger   *log.Logger
	session  *discordgo.Session
	commands map[string]commandFunc
}

// New creates a bot and registers its handlers. The session is not
// opened until Open is called.
func New(cfg Config, logger *log.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	b := &Bot{
		cfg:     cfg,
		logger:  logger,
		session: session,
	}
	b.commands = map[string]commandFunc{
		"help":     b.cmdHelp,
		"activity": b.cmdActivity,
		"say":      b.cmdSay,
		"boop":     b.cmdBoop,
		"dm":       b.cmdDM,
		"ping":     b.cmdPing,
		"pfp":      b.cmdPfp,
		"invert":   b.cmdInvert,
		"run":      b.cmdRun,
		"dis":      b.cmdDis,
		"asm":      b.cmdAsm,
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)

	return b, nil
}

// Open connects the session to the platform gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	return nil
}

// Close disconnects the session.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Connected",
		log.String("user", r.User.Username))
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	if name, args, ok := parseCommand(m.Content, b.cfg.Prefix); ok {
		if cmd, found := b.commands[name]; found {
			b.logger.Debug("Dispatching command",
				log.String("command", name),
				log.String("user", m.Author.Username))
			cmd(s, m, args)
		}
		return
	}

	b.reactToKeywords(s, m)
}

// parseCommand splits a prefixed message into command name and
// argument rest. Whitespace after the prefix is tolerated.
func parseCommand(content, prefix string) (name, args string, ok bool) {
	rest, found := strings.CutPrefix(content, prefix)
	if !found {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", false
	}
	name, args, _ = strings.Cut(rest, " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

// reactToKeywords adds an emoji reaction for each keyword found in
// the message, matching against the lowercased content with all
// whitespace stripped.
func (b *Bot) reactToKeywords(s *discordgo.Session, m *discordgo.MessageCreate) {
	squashed := squash(m.Content)
	for _, r := range reactions {
		if strings.Contains(squashed, r.keyword) {
			if err := s.MessageReactionAdd(m.ChannelID, m.ID, r.emoji); err != nil {
				b.logger.Error("Adding reaction failed", log.Err(err))
			}
		}
	}
}

// squash lowercases the content and removes all whitespace, so
// keywords split across spaces still match.
func squash(content string) string {
	return strings.Join(strings.Fields(strings.ToLower(content)), "")
}

// reply sends plain text to the message's channel, logging delivery
// failures instead of propagating them.
func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		b.logger.Error("Sending message failed", log.Err(err))
	}
}
