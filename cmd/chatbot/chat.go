package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/agent/telemetry"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/rag"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/internal/store"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/provider"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/session/inmemory"
)

// chatCommand runs a console conversation against the sample data set,
// without the HTTP layer. Handy for trying prompts and checking the claims
// selection behavior.
func chatCommand(configPath *string) *cobra.Command {
	var memberID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive console chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(*configPath)
			ctx := context.Background()

			st := store.New()
			store.LoadSampleData(st)

			llm, err := provider.NewLLMProvider(cfg.LLM)
			if err != nil {
				return err
			}
			index, err := rag.NewIndex(cfg.RAG.PersistDir)
			if err != nil {
				return err
			}
			pipeline := rag.NewPipeline(cfg.RAG, llm, cfg.LLM.Routing.Embedding, index)
			if index.Len() == 0 {
				if err := pipeline.IngestAll(ctx, rag.SampleDocuments()); err != nil {
					fmt.Fprintf(os.Stderr, "warning: document ingestion failed: %v\n", err)
				}
			}

			sessions := inmemory.NewStore(cfg.Session.TTL)
			ag := agent.New(cfg, st, pipeline, llm, sessions, telemetry.New(cfg.Telemetry))

			sess, err := sessions.Ensure(ctx, "")
			if err != nil {
				return err
			}
			if memberID != "" {
				if sess, err = ag.SelectMember(ctx, sess.ID, memberID); err != nil {
					return err
				}
			}

			fmt.Println("Dental insurance assistant. Type 'quit' to exit, 'member <id>' to switch identity.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == "quit" || line == "exit":
					return nil
				case strings.HasPrefix(line, "member "):
					id := strings.TrimSpace(strings.TrimPrefix(line, "member "))
					if sess, err = ag.SelectMember(ctx, sess.ID, id); err != nil {
						fmt.Printf("switch member: %v\n", err)
						continue
					}
					fmt.Printf("now chatting as %s\n", id)
					continue
				}

				turn, err := ag.ProcessTurn(ctx, sess.ID, line)
				if err != nil {
					fmt.Printf("error: %v\n", err)
					continue
				}
				fmt.Println(turn.Reply)
				for _, c := range turn.Claims {
					fmt.Printf("  %s  %s  %-11s  $%-8.2f %s - %s\n",
						c.ClaimID, c.ServiceDate.Format("01/02/06"), c.Status,
						c.BilledAmount, c.ProcedureCode, c.ProcedureDescription)
				}
			}
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "member or dependent id to chat as")
	return cmd
}
