package bot

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/retroenv/retrogolib/log"
)

const helpText = `emulation commands:
    ` + "`run`" + `: run a program (inline hex or attached binary) and dump the final register state
    ` + "`dis`" + `: disassemble a program without running it
    ` + "`asm`" + `: assemble the given source, then run it

misc commands:
    ` + "`help`" + `: list valid commands and some system info
    ` + "`activity`" + `: set the bot's activity
    ` + "`say`" + `: print a message
    ` + "`boop`" + `: boop another user :3
    ` + "`dm`" + `: send a DM to a user
    ` + "`pfp`" + `: send the profile picture of a user (defaults to yourself if no username is mentioned)
    ` + "`invert`" + `: send the profile picture of a user with inverted colors (defaults to yourself if no username is mentioned)
    ` + "`ping`" + `: pong`

func (b *Bot) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate, _ string) {
	version := "dev"
	goVersion := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		version = info.Main.Version
		goVersion = info.GoVersion
	}
	header := fmt.Sprintf("rybot2 %s (%s)\n\n", version, goVersion)
	b.reply(s, m, header+helpText)
}

// cmdActivity sets the activity shown on the bot's presence.
func (b *Bot) cmdActivity(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if err := s.UpdateGameStatus(0, args); err != nil {
		b.logger.Error("Updating status failed", log.Err(err))
		return
	}
	b.reply(s, m, fmt.Sprintf("Activity set to \"Playing %s\"", args))
}

// cmdSay repeats the argument with user and role mentions replaced by
// a safe textual alternative.
func (b *Bot) cmdSay(s *discordgo.Session, m *discordgo.MessageCreate, _ string) {
	content := m.ContentWithMentionsReplaced()
	if rest, _, ok := splitCommandContent(content, b.cfg.Prefix); ok {
		content = rest
	}
	content = strings.ReplaceAll(content, "@everyone", "everyone")
	content = strings.ReplaceAll(content, "@here", "here")
	if content != "" {
		b.reply(s, m, content)
	}
}

// splitCommandContent strips the prefix and command word, returning
// the argument text as the user typed it.
func splitCommandContent(content, prefix string) (string, string, bool) {
	rest, found := strings.CutPrefix(content, prefix)
	if !found {
		return "", "", false
	}
	name, args, _ := strings.Cut(strings.TrimSpace(rest), " ")
	return strings.TrimSpace(args), name, true
}

func (b *Bot) cmdBoop(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	receiver, _, _ := strings.Cut(args, " ")
	if receiver == "" {
		b.reply(s, m, "Mention someone to boop! uwu")
		return
	}
	if receiver == "@everyone" {
		receiver = "everyone"
	}
	if len(m.Mentions) > 0 {
		receiver = m.Mentions[0].Username
	}
	b.reply(s, m, fmt.Sprintf("*%s boops %s* :3", m.Author.Username, receiver))
}

func (b *Bot) cmdDM(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if len(m.Mentions) == 0 {
		b.reply(s, m, "Mention someone to DM! uwu")
		return
	}
	target := m.Mentions[0]

	// Drop the mention token from the argument text.
	_, rest, _ := strings.Cut(args, " ")

	channel, err := s.UserChannelCreate(target.ID)
	if err != nil {
		b.logger.Error("Creating DM channel failed", log.Err(err))
		return
	}
	message := fmt.Sprintf("%s says %s", m.Author.Username, rest)
	if _, err := s.ChannelMessageSend(channel.ID, message); err != nil {
		b.logger.Error("Sending DM failed", log.Err(err))
		return
	}
	b.reply(s, m, "Message sent! :3")
}

func (b *Bot) cmdPing(s *discordgo.Session, m *discordgo.MessageCreate, _ string) {
	b.reply(s, m, "Pong!")
}

// cmdPfp sends the profile picture URL of the mentioned user, or of
// the requester when nobody is mentioned.
func (b *Bot) cmdPfp(s *discordgo.Session, m *discordgo.MessageCreate, _ string) {
	user := m.Author
	if len(m.Mentions) > 0 {
		user = m.Mentions[0]
	}
	url := user.AvatarURL(avatarSize)
	if url == "" {
		b.reply(s, m, "Failed to get URL for user")
		return
	}
	b.reply(s, m, url)
}
