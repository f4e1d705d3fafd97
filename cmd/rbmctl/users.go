package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lojasmm/rbm/internal/rbm"
)

func capabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capability <msisdn>",
		Short: "Check synchronously whether a device supports RBM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			caps, err := client.GetCapability(ctx, args[0])
			if rbm.IsNotFound(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not reachable over RBM\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(caps)
		},
	}
}

func capabilityCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capability-check <msisdn>",
		Short: "Request an asynchronous capability callback to the agent webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			requestID, err := client.PerformCapabilityCheck(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), requestID)
			return nil
		},
	}
}

func usersCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "users [msisdn...]",
		Short: "Batch check which numbers are reachable over RBM",
		Long: `Numbers come from the arguments and, with --file, from a file holding one
number per line ("-" reads stdin). Blank lines and lines starting with # are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers := append([]string(nil), args...)
			if file != "" {
				fromFile, err := readNumbersFile(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				numbers = append(numbers, fromFile...)
			}

			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			resp, err := client.GetUsers(ctx, numbers)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one msisdn per line")
	return cmd
}

func testerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register-tester <msisdn>",
		Short: "Invite a device as a tester of the agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			client, _, err := gateway(ctx)
			if err != nil {
				return err
			}

			tester, err := client.RegisterTester(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(tester)
		},
	}
}

func readNumbersFile(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return readNumbers(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening numbers file: %w", err)
	}
	defer f.Close()
	return readNumbers(f)
}

func readNumbers(r io.Reader) ([]string, error) {
	var numbers []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := rbm.ValidateMSISDN(line); err != nil {
			return nil, err
		}
		numbers = append(numbers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading numbers: %w", err)
	}
	return numbers, nil
}
