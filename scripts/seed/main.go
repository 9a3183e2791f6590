// Command seed posts a batch of sample student cards against a running API
// instance so the preview and export endpoints have data to work with during
// local development.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type cardPayload struct {
	Name          string   `json:"name"`
	RollNumber    string   `json:"rollNumber"`
	ClassDivision string   `json:"classDivision"`
	Allergies     []string `json:"allergies,omitempty"`
	Photo         string   `json:"photo"`
	RackNumber    string   `json:"rackNumber,omitempty"`
	BusRouteNo    string   `json:"busRouteNumber"`
	Template      string   `json:"template"`
}

func main() {
	var (
		base    string
		prefix  string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	url := strings.TrimRight(base, "/") + prefix + "/cards"

	var failed int
	for _, card := range sampleCards() {
		if err := postCard(client, url, card); err != nil {
			log.Printf("failed to seed %s: %v", card.Name, err)
			failed++
			continue
		}
		fmt.Printf("seeded %s (%s, roll %s)\n", card.Name, card.ClassDivision, card.RollNumber)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func postCard(client *http.Client, url string, card cardPayload) error {
	body, err := json.Marshal(card)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}

func sampleCards() []cardPayload {
	photo := base64.StdEncoding.EncodeToString([]byte("placeholder photo bytes"))
	return []cardPayload{
		{
			Name:          "Asha Rao",
			RollNumber:    "42",
			ClassDivision: "5B",
			Allergies:     []string{"Peanuts"},
			Photo:         photo,
			RackNumber:    "12",
			BusRouteNo:    "R3",
			Template:      "modern",
		},
		{
			Name:          "Rohan Mehta",
			RollNumber:    "7",
			ClassDivision: "8A",
			Allergies:     []string{"Dairy", "Eggs"},
			Photo:         photo,
			RackNumber:    "3",
			BusRouteNo:    "R1",
			Template:      "classic",
		},
		{
			Name:          "Priya Nair",
			RollNumber:    "19",
			ClassDivision: "10C",
			Photo:         photo,
			BusRouteNo:    "R7",
			Template:      "modern",
		},
		{
			Name:          "Kabir Singh",
			RollNumber:    "28",
			ClassDivision: "12A",
			Allergies:     []string{"Shellfish"},
			Photo:         photo,
			RackNumber:    "21",
			BusRouteNo:    "R10",
			Template:      "classic",
		},
	}
}
