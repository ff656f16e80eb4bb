package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/internal/presentation/tui"
	"github.com/jvm123/botstory/pkg/domain"
)

// RunChat runs an interactive chat session on the terminal.
func RunChat(opts BotOptions) error {
	logger := createLogger(opts.Debug)

	bot, err := NewBot(opts, logger)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	render := func(text string) (string, error) { return text + "\n", nil }
	if interactive {
		tui.PrintBanner(botstory.Version)
		render = tui.NewRenderer()
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	printReply(render, domain.Reply{
		Text:    bot.TemplateData()["welcome"].(string),
		Buttons: bot.Registry().HomeButtons(),
	})

	reader := bufio.NewReader(NewInterruptibleReader(os.Stdin, sigCtx.Done()))
	for {
		if interactive {
			fmt.Print("> ")
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if isInterrupted(err) {
				fmt.Println()
				printSystemMessage("Bye.")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if lower := strings.ToLower(text); lower == "bye" || lower == "exit" || lower == "quit" {
			printSystemMessage("Bye.")
			return nil
		}

		reply, err := bot.Respond(sigCtx, text)
		if err != nil {
			if sigCtx.Err() != nil {
				return nil
			}
			return fmt.Errorf("respond: %w", err)
		}
		printReply(render, reply)
	}
}

func printReply(render func(string) (string, error), reply domain.Reply) {
	out, err := render(reply.Text)
	if err != nil {
		out = reply.Text + "\n"
	}
	fmt.Print(out)

	if len(reply.Buttons) > 0 {
		hints := make([]string, len(reply.Buttons))
		for i, b := range reply.Buttons {
			hints[i] = "[" + b + "]"
		}
		printSystemMessage("%s", strings.Join(hints, " "))
	}
}

// InterruptibleReader wraps an io.Reader (like os.Stdin) and checks
// for a cancellation signal around the blocking read.
type InterruptibleReader struct {
	base   io.Reader
	cancel <-chan struct{}
}

func NewInterruptibleReader(base io.Reader, cancel <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{
		base:   base,
		cancel: cancel,
	}
}

func (r *InterruptibleReader) Read(p []byte) (n int, err error) {
	select {
	case <-r.cancel:
		return 0, errors.New("interrupted")
	default:
	}

	n, err = r.base.Read(p)

	select {
	case <-r.cancel:
		return 0, errors.New("interrupted")
	default:
	}
	return n, err
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		err.Error() == "interrupted" ||
		(errors.Unwrap(err) != nil && isInterrupted(errors.Unwrap(err)))
}
