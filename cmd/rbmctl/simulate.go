package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lojasmm/rbm/internal/rbm"
	"github.com/lojasmm/rbm/internal/webhook"
)

func simulateCmd() *cobra.Command {
	var (
		url, token, postback string
	)

	cmd := &cobra.Command{
		Use:   "simulate <msisdn> <text>",
		Short: "Deliver a signed user message to a running agent webhook",
		Long: `simulate posts a notification to the webhook the way the platform does,
signed with the client token. With --postback the message is sent as a
suggestion response carrying that postback data.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rbm.ValidateMSISDN(args[0]); err != nil {
				return err
			}
			if token == "" {
				token = os.Getenv("RBM_CLIENT_TOKEN")
			}

			notification, err := userMessage(args[0], args[1], postback)
			if err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(webhook.Envelope(notification, uuid.NewString())))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			if token != "" {
				req.Header.Set("X-Goog-Signature", base64.StdEncoding.EncodeToString(webhook.Sign(token, notification)))
			}

			ctx, cancel := commandContext()
			defer cancel()
			resp, err := http.DefaultClient.Do(req.WithContext(ctx))
			if err != nil {
				return fmt.Errorf("posting to webhook: %w", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", resp.Status, bytes.TrimSpace(body))
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("webhook answered %s", resp.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/webhook", "agent webhook URL")
	cmd.Flags().StringVar(&token, "token", "", "client token (default $RBM_CLIENT_TOKEN)")
	cmd.Flags().StringVar(&postback, "postback", "", "send as a suggestion response with this postback data")
	return cmd
}

// userMessage builds the decoded notification for an inbound user message.
func userMessage(msisdn, text, postback string) ([]byte, error) {
	n := map[string]any{
		"senderPhoneNumber": msisdn,
		"messageId":         uuid.NewString(),
		"sendTime":          time.Now().UTC().Format(time.RFC3339Nano),
	}
	if postback != "" {
		n["suggestionResponse"] = map[string]string{
			"postbackData": postback,
			"text":         text,
			"type":         "REPLY",
		}
	} else {
		n["text"] = text
	}
	return json.Marshal(n)
}
