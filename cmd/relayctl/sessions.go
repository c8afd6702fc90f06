package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List active upstream sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

var evictCmd = &cobra.Command{
	Use:   "evict <username>",
	Short: "Force-release a streamer's upstream session",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvict,
}

func runSessions(cmd *cobra.Command, args []string) error {
	body, err := operatorRequest("GET", serverURL+"/sessions")
	if err != nil {
		return err
	}

	var response struct {
		Sessions []struct {
			Streamer    string `json:"streamer"`
			State       string `json:"state"`
			Subscribers int    `json:"subscribers"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(response.Sessions) == 0 {
		fmt.Println("no active sessions")
		return nil
	}

	fmt.Printf("%-24s %-12s %s\n", "STREAMER", "STATE", "SUBSCRIBERS")
	for _, session := range response.Sessions {
		fmt.Printf("%-24s %-12s %d\n", session.Streamer, session.State, session.Subscribers)
	}

	return nil
}

func runEvict(cmd *cobra.Command, args []string) error {
	_, err := operatorRequest("DELETE", serverURL+"/sessions/"+args[0])
	if err != nil {
		return err
	}

	fmt.Println("session evicted")

	return nil
}

func operatorRequest(method, url string) ([]byte, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %s", resp.Status, string(body))
	}

	return body, nil
}
