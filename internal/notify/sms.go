package notify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SMSMessage is the payload published to the SMS dispatch subject.
type SMSMessage struct {
	Phone   string `json:"phone"`
	Body    string `json:"body"`
	OrderID string `json:"orderId,omitempty"`
}

// ComposePlacementCode builds the customer-facing SMS for a placement code.
func ComposePlacementCode(code string, orderNumber int64) string {
	return fmt.Sprintf("Your fuel order #%d confirmation code is %s. It expires in 10 minutes. Do not share it.", orderNumber, code)
}

func encodeSMS(msg SMSMessage) ([]byte, error) {
	if strings.TrimSpace(msg.Phone) == "" {
		return nil, fmt.Errorf("sms phone is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return nil, fmt.Errorf("sms body is required")
	}
	return json.Marshal(msg)
}

func decodeSMS(data []byte) (SMSMessage, error) {
	var msg SMSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SMSMessage{}, fmt.Errorf("decoding sms payload: %w", err)
	}
	if strings.TrimSpace(msg.Phone) == "" {
		return SMSMessage{}, fmt.Errorf("sms payload missing phone")
	}
	return msg, nil
}
