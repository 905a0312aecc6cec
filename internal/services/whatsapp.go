package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppMessage is the payload relayed to the external sending service.
type WhatsAppMessage struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	Media       string `json:"media,omitempty"`
	Sales       string `json:"sales,omitempty"`
}

// WhatsAppService proxies outbound messages to a fixed external
// WhatsApp-sending service and relays its response unchanged.
type WhatsAppService struct {
	url    string
	client *http.Client
}

// NewWhatsAppService creates a new WhatsAppService.
func NewWhatsAppService(url string) *WhatsAppService {
	return &WhatsAppService{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send forwards the message and returns the upstream status and body.
func (s *WhatsAppService) Send(msg WhatsAppMessage) (int, []byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to serialize message: %w", err)
	}

	resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("whatsapp service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read whatsapp response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
