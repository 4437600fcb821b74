package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the dashboard assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			body, err := json.Marshal(map[string]string{"question": question})
			if err != nil {
				return err
			}

			resp, err := http.Post(serverURL+"/api/assistant", "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("asking assistant: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("assistant returned %d", resp.StatusCode)
			}

			var answer struct {
				Content     string   `json:"content"`
				Suggestions []string `json:"suggestions"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
				return fmt.Errorf("decoding answer: %w", err)
			}

			fmt.Println(answer.Content)
			if len(answer.Suggestions) > 0 {
				fmt.Println("\nsuggestions:")
				for _, s := range answer.Suggestions {
					fmt.Printf("  - %s\n", s)
				}
			}
			return nil
		},
	}
}
