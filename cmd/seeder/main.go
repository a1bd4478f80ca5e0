package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Record is the request payload for creating a maintenance record.
type Record struct {
	Code          string `json:"code"`
	EquipmentCode string `json:"equipment_code"`
	Title         string `json:"title"`
	StartDate     string `json:"start_date"`
	StartTime     string `json:"start_time"`
	EndDate       string `json:"end_date,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	Status        string `json:"status"`
	Mechanic      string `json:"mechanic"`
	StopType      string `json:"stop_type"`
	Observations  string `json:"observations,omitempty"`
}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiURL, email, password string) (string, error) {
	creds := map[string]string{"email": email, "password": password}
	data, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}

	resp, err := http.Post(apiURL+"/auth/login", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("empty token in login response")
	}
	return result.Token, nil
}

func createRecord(apiURL string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/records", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("record creation failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	log.WithFields(log.Fields{
		"code":      result.Code,
		"equipment": rec.EquipmentCode,
		"status":    rec.Status,
	}).Info("Created record")

	return nil
}

// sampleRecords builds a starter set of maintenance logs relative to the
// given day so the dashboard has both completed and still-open entries.
func sampleRecords(now time.Time) []Record {
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	return []Record{
		{
			EquipmentCode: "EQ-01",
			Title:         "TROCA DE ÓLEO",
			StartDate:     yesterday,
			StartTime:     "08:00",
			EndDate:       yesterday,
			EndTime:       "10:30",
			Status:        "CONCLUÍDO",
			Mechanic:      "MECÂNICO 01",
			StopType:      "PARADA MECÂNICA",
		},
		{
			EquipmentCode: "CM-05",
			Title:         "MANUTENÇÃO HIDRÁULICA",
			StartDate:     yesterday,
			StartTime:     "14:00",
			Status:        "AGUARDANDO PEÇA",
			Mechanic:      "MECÂNICO 02",
			StopType:      "PARADA MECÂNICA",
			Observations:  "AGUARDANDO MANGUEIRA DE ALTA PRESSÃO",
		},
		{
			EquipmentCode: "EQ-02",
			Title:         "INSPEÇÃO PNEUS",
			StartDate:     today,
			StartTime:     "07:30",
			EndDate:       today,
			EndTime:       "08:15",
			Status:        "CONCLUÍDO",
			Mechanic:      "MECÂNICO 01",
			StopType:      "OPORTUNIDADE",
		},
	}
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	email := os.Getenv("SEED_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	log.WithField("api_url", apiURL).Info("Seeding maintenance records")

	token, err := login(apiURL, email, password)
	if err != nil {
		log.WithError(err).Fatal("Login failed. Ensure the API is running and SEED_EMAIL/SEED_PASSWORD are valid.")
	}
	authToken = token

	created := 0
	for _, rec := range sampleRecords(time.Now()) {
		if err := createRecord(apiURL, rec); err != nil {
			log.WithError(err).Error("Failed to create record")
			continue
		}
		created++
	}

	log.WithField("created_records", created).Info("Seeding completed")
	if created == 0 {
		os.Exit(1)
	}
}
