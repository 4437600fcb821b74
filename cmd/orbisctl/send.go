package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	var (
		incidentID  string
		incType     string
		location    string
		description string
		urgency     string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Post a simplified-shape incident report to the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			if incidentID == "" {
				incidentID = fmt.Sprintf("ctl-%d", time.Now().UnixMilli())
			}

			payload := map[string]any{
				"incident_id": incidentID,
				"type":        incType,
				"location":    location,
			}
			if description != "" {
				payload["description"] = description
			}
			if urgency != "" {
				payload["urgency"] = urgency
			}

			body, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			resp, err := http.Post(serverURL+"/webhook-handler", "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("posting webhook: %w", err)
			}
			defer resp.Body.Close()

			var result struct {
				Success     bool   `json:"success"`
				Message     string `json:"message"`
				IncidentID  string `json:"incident_id"`
				QueueLength int    `json:"queue_length"`
				Error       string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("relay rejected report (%d): %s", resp.StatusCode, result.Error)
			}

			fmt.Printf("accepted %s (queue length %d)\n", result.IncidentID, result.QueueLength)
			return nil
		},
	}

	cmd.Flags().StringVar(&incidentID, "id", "", "incident id (generated when empty)")
	cmd.Flags().StringVar(&incType, "type", "lixo", "incident type (lixo, iluminacao, crime, incendio, inundacao)")
	cmd.Flags().StringVar(&location, "location", "Brasília, DF", "incident location")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&urgency, "urgency", "", "urgency (baixa, media, alta, critica)")
	return cmd
}
