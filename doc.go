/*
Package botstory is a multi-turn slot-filling dialog engine for building task-oriented chatbots.

It separates the story definition (branches with typed entity schemas) from the per-session dialog state (active branch, filled slots, pending question) and from side-effects (branch actions). Storylines declare WHAT to collect; the engine decides, turn by turn, what to ask next.

# Concept

A story is a set of branches. Each branch carries an ordered schema of typed slots (int, string, bool, date, confirmation gates) with question templates. Trigger words activate a branch; the engine then asks for the first unset slot, extracts typed values from free-form answers, opportunistically fills sibling slots from the same utterance, and runs the branch's action once every slot is set. Utterances the slot engine cannot claim fall through to a trained best-match responder for small talk.

This hexagonal layout keeps the core engine decoupled from adapters: sessions persist through a StateStore (in-memory or Redis), and the bot embeds in any host such as a CLI or an HTTP server.

# Usage

Register branches on a Registry, create one Bot per conversation, and feed it user turns:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/jvm123/botstory"
		"github.com/jvm123/botstory/pkg/domain"
		"github.com/jvm123/botstory/pkg/story"
	)

	func main() {
		reg := story.NewRegistry()

		if err := reg.RegisterBranch(domain.Branch{
			Name: "init",
		}); err != nil {
			log.Fatal(err)
		}
		if err := reg.RegisterBranch(domain.Branch{
			Name:         "search",
			TriggerWords: []string{"search", "room"},
			Schema: domain.Schema{
				{Name: "date", Type: domain.EntityDate, Question: "What date are you arriving?"},
				{Name: "size", Type: domain.EntityString, Question: "What size do you need?"},
			},
		}); err != nil {
			log.Fatal(err)
		}

		bot, err := botstory.New(reg)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		for _, text := range []string{"I want to search for a room", "tomorrow", "large"} {
			reply, err := bot.Respond(ctx, text)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(reply.Text)
		}
	}
*/
package botstory
