package bot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/retroenv/retrogolib/log"

	"github.com/ry755/rybot2/emu"
)

// Platform message size limit, minus room for the code fence.
const maxTextBlock = 1900

// assembleTimeout bounds the external assembler invocation.
const assembleTimeout = 30 * time.Second

// cmdRun loads the program from the message and runs it to halt,
// replying with the register dump and, when the program touched the
// video ports, the upscaled frame.
func (b *Bot) cmdRun(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	program, err := b.programFromMessage(m, args)
	if err != nil {
		b.reply(s, m, err.Error())
		return
	}
	b.runProgram(s, m, program)
}

// cmdDis replies with the bounded disassembly listing of the program
// without executing it.
func (b *Bot) cmdDis(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	program, err := b.programFromMessage(m, args)
	if err != nil {
		b.reply(s, m, err.Error())
		return
	}

	driver, err := emu.Load(program, b.cfg.Capacity)
	if err != nil {
		b.reply(s, m, err.Error())
		return
	}
	b.reply(s, m, codeBlock(emu.Listing(driver)))
}

// cmdAsm passes the message source through the external assembler and
// runs the produced binary.
func (b *Bot) cmdAsm(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	source := stripCodeFence(args)
	if source == "" {
		b.reply(s, m, "no source given: paste assembly, optionally in a code block")
		return
	}

	program, output, err := b.assemble(source)
	if err != nil {
		b.logger.Error("Assembling failed", log.Err(err))
		b.reply(s, m, codeBlock(output))
		return
	}
	if len(program) > b.cfg.Capacity {
		b.reply(s, m, fmt.Sprintf("assembled program is %d bytes but the machine only has %d bytes of memory",
			len(program), b.cfg.Capacity))
		return
	}
	b.runProgram(s, m, program)
}

// runProgram drives one load-execute-export pass and delivers the
// result. An execution fault produces an error message and no
// register dump, since register state after an unexpected trap is not
// meaningful.
func (b *Bot) runProgram(s *discordgo.Session, m *discordgo.MessageCreate, program []uint8) {
	driver, err := emu.Load(program, b.cfg.Capacity)
	if err != nil {
		b.reply(s, m, err.Error())
		return
	}

	if err := driver.Execute(); err != nil {
		b.logger.Error("Execution failed", log.Err(err))
		b.reply(s, m, err.Error())
		return
	}

	result, err := emu.Export(driver)
	if err != nil {
		// The register text is still valid when only the frame
		// export failed.
		b.logger.Error("Frame export failed", log.Err(err))
	}

	msg := &discordgo.MessageSend{Content: codeBlock(result.RegisterText)}
	if result.FramePNG != nil {
		msg.Files = []*discordgo.File{{
			Name:        "frame.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(result.FramePNG),
		}}
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		b.logger.Error("Sending result failed", log.Err(err))
	}
}

// assemble writes the source to a scratch file and invokes the
// configured assembler on it, returning the produced binary. The
// assembler's combined output is returned either way so failures can
// be shown to the user.
func (b *Bot) assemble(source string) ([]uint8, string, error) {
	dir, err := os.MkdirTemp("", "rybot2-asm-")
	if err != nil {
		return nil, "", fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "program.asm")
	binPath := filepath.Join(dir, "program.bin")
	if err := os.WriteFile(srcPath, []byte(source), 0o600); err != nil {
		return nil, "", fmt.Errorf("writing source: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), assembleTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, b.cfg.Assembler, srcPath, "-f", "binary", "-o", binPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, string(output), fmt.Errorf("running assembler: %w", err)
	}

	program, err := os.ReadFile(binPath)
	if err != nil {
		return nil, string(output), fmt.Errorf("reading assembler output: %w", err)
	}
	return program, string(output), nil
}

// codeBlock wraps text in a Markdown code fence, truncating it to fit
// the platform's message size limit.
func codeBlock(text string) string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		text = "(no output)"
	}
	if len(text) > maxTextBlock {
		text = text[:maxTextBlock] + "\n... (truncated)"
	}
	return "```\n" + text + "\n```"
}
