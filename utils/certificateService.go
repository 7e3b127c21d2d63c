package utils

import (
	"fmt"
	"strings"
	"time"
	"youthhub/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// NewVerificationCode builds a globally-unique certificate verification code
// (timestamp plus random suffix, collision resistant enough for lookups).
func NewVerificationCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("YH-%s-%s", time.Now().Format("20060102150405"), suffix)
}

// NewDigitalSignature returns an opaque signature token for a certificate.
// A real signing service would replace this placeholder.
func NewDigitalSignature() string {
	return fmt.Sprintf("sig_%s", strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// renderRequest is the payload sent to the external certificate renderer.
type renderRequest struct {
	Kind        string `json:"kind"` // "module" or "course"
	UnitID      uint   `json:"unit_id"`
	UserID      uint   `json:"user_id"`
	StudentName string `json:"student_name"`
	UnitTitle   string `json:"unit_title"`
	Grade       int    `json:"grade,omitempty"`
}

type renderResponse struct {
	URL string `json:"url"`
}

// RenderCertificateURL asks the external rendering service for a stored
// certificate document and returns its URL. When no renderer is configured a
// deterministic placeholder object-storage URL is synthesized instead, so
// issuance never blocks on the external collaborator in development.
func RenderCertificateURL(kind string, unitID, userID uint, studentName, unitTitle string, grade int) (string, error) {
	if config.AppConfig == nil || config.AppConfig.CertificateRenderURL == "" {
		base := "https://cdn.youthhub.io/certificates"
		if config.AppConfig != nil && config.AppConfig.CertificateBaseURL != "" {
			base = config.AppConfig.CertificateBaseURL
		}
		token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		return fmt.Sprintf("%s/%s/%d-%d-%s.pdf", base, kind, unitID, userID, token), nil
	}

	client := resty.New().SetTimeout(10 * time.Second)

	var result renderResponse
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.CertificateRenderKey).
		SetBody(renderRequest{
			Kind:        kind,
			UnitID:      unitID,
			UserID:      userID,
			StudentName: studentName,
			UnitTitle:   unitTitle,
			Grade:       grade,
		}).
		SetResult(&result).
		Post(config.AppConfig.CertificateRenderURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("certificate renderer returned status %d", resp.StatusCode())
	}
	if result.URL == "" {
		return "", fmt.Errorf("certificate renderer returned an empty URL")
	}

	return result.URL, nil
}
