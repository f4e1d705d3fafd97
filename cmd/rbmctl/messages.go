package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lojasmm/rbm/internal/cardspec"
	"github.com/lojasmm/rbm/internal/rbm"
)

func sendTextCmd() *cobra.Command {
	var replies []string

	cmd := &cobra.Command{
		Use:   "send-text <msisdn> <text>",
		Short: "Send a text message with optional reply chips",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestions, err := parseReplies(replies)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			msg, err := client.SendTextMessage(ctx, args[1], args[0], rbm.Suggestions(suggestions...)...)
			if err != nil {
				return err
			}
			return printJSON(msg)
		},
	}

	cmd.Flags().StringArrayVarP(&replies, "reply", "r", nil, `reply chip as "text=postback" (repeatable)`)
	return cmd
}

func sendCardCmd() *cobra.Command {
	var (
		title, description, image string
		height, orientation       string
		replies                   []string
	)

	cmd := &cobra.Command{
		Use:   "send-card <msisdn>",
		Short: "Send a standalone rich card built from flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := rbm.ParseMediaHeight(height)
			if err != nil {
				return err
			}
			o, err := rbm.ParseCardOrientation(orientation)
			if err != nil {
				return err
			}
			suggestions, err := parseReplies(replies)
			if err != nil {
				return err
			}

			content := rbm.NewCardContent(rbm.CardParams{
				Title:       title,
				Description: description,
				ImageURL:    image,
				Height:      h,
				Suggestions: rbm.Suggestions(suggestions...),
			})

			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			msg, err := client.SendStandaloneCard(ctx, rbm.NewStandaloneCard(content, o), args[0])
			if err != nil {
				return err
			}
			return printJSON(msg)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "card title")
	cmd.Flags().StringVar(&description, "description", "", "card description")
	cmd.Flags().StringVar(&image, "image", "", "public media URL")
	cmd.Flags().StringVar(&height, "height", "MEDIUM", "media height: SHORT, MEDIUM or TALL")
	cmd.Flags().StringVar(&orientation, "orientation", "VERTICAL", "card orientation: VERTICAL or HORIZONTAL")
	cmd.Flags().StringArrayVarP(&replies, "reply", "r", nil, `reply chip as "text=postback" (repeatable)`)
	return cmd
}

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <msisdn> <file.yaml>",
		Short: "Send a text, standalone card or carousel described in a YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := cardspec.Load(args[1])
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			created, err := client.SendAgentMessage(ctx, msg, args[0])
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <msisdn> <message-id>",
		Short: "Send a READ receipt for a user message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}
			return client.SendReadMessage(ctx, args[1], args[0])
		},
	}
}

func typingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typing <msisdn>",
		Short: "Show the typing indicator on the user's device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}
			return client.SendIsTypingMessage(ctx, args[0])
		},
	}
}

func revokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <msisdn> <message-id>",
		Short: "Revoke a message the user has not received yet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}
			if err := client.RevokeMessage(ctx, args[1], args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[1])
			return nil
		},
	}
}

// parseReplies reads "text=postback" pairs. A pair without "=" uses the text
// as postback data.
func parseReplies(values []string) ([]rbm.Reply, error) {
	replies := make([]rbm.Reply, 0, len(values))
	for _, v := range values {
		text, postback, found := strings.Cut(v, "=")
		if text == "" {
			return nil, fmt.Errorf("%w: reply %q has no text", rbm.ErrInvalidArgument, v)
		}
		if !found {
			postback = text
		}
		replies = append(replies, rbm.Reply{Text: text, PostbackData: postback})
	}
	return replies, nil
}
