package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jvm123/botstory"
)

// RunSim replays a transcript file against the bot and prints each
// exchange. A blank line in the transcript starts a fresh session, so
// one file can cover several independent conversations.
func RunSim(opts BotOptions, transcriptPath string) error {
	logger := createLogger(opts.Debug)

	f, err := os.Open(transcriptPath)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	newBot := func() (*botstory.Bot, error) { return NewBot(opts, logger) }
	bot, err := newBot()
	if err != nil {
		return err
	}

	ctx := context.Background()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			printSystemMessage("new session")
			if bot, err = newBot(); err != nil {
				return err
			}
			continue
		}

		reply, err := bot.Respond(ctx, text)
		if err != nil {
			return fmt.Errorf("respond to %q: %w", text, err)
		}
		fmt.Printf("> %s\n%s\n", text, reply.Text)
		if len(reply.Buttons) > 0 {
			printSystemMessage("buttons: %s", strings.Join(reply.Buttons, " | "))
		}
	}
	return scanner.Err()
}
