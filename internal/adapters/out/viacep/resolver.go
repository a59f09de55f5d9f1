// Package viacep resolves Brazilian postal codes (CEP) through the ViaCEP
// web service.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/errs"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br"

const requestTimeout = 5 * time.Second

type response struct {
	CEP      string `json:"cep"`
	Street   string `json:"logradouro"`
	District string `json:"bairro"`
	City     string `json:"localidade"`
	State    string `json:"uf"`
	Error    any    `json:"erro"`
}

// notFound reports the "erro" marker, which ViaCEP has sent both as a JSON
// boolean and as the string "true".
func (r response) notFound() bool {
	switch v := r.Error.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Resolver implements ports.AddressResolver.
type Resolver struct {
	baseURL string
	client  *http.Client
}

// NewResolver creates a resolver against baseURL. An empty baseURL uses
// DefaultBaseURL.
func NewResolver(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   2 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 2 * time.Second,
			},
			Timeout: requestTimeout,
		},
	}
}

// Resolve looks up postalCode (eight digits, no separator).
func (r *Resolver) Resolve(ctx context.Context, postalCode string) (ports.ResolvedAddress, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", r.baseURL, postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.ResolvedAddress{}, errs.NewValueIsInvalidErrorWithCause("postal code", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return ports.ResolvedAddress{}, errs.NewDependencyIsUnavailableErrorWithCause("viacep", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return ports.ResolvedAddress{}, errs.NewValueIsInvalidErrorWithCause(
			"postal code", fmt.Errorf("%q was refused by the lookup service", postalCode))
	case resp.StatusCode != http.StatusOK:
		return ports.ResolvedAddress{}, errs.NewDependencyIsUnavailableErrorWithCause(
			"viacep", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body response
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.ResolvedAddress{}, errs.NewDependencyIsUnavailableErrorWithCause("viacep", err)
	}
	if body.notFound() {
		return ports.ResolvedAddress{}, errs.NewObjectNotFoundError("postal code", postalCode)
	}

	code := strings.ReplaceAll(body.CEP, "-", "")
	if code == "" {
		code = postalCode
	}

	return ports.ResolvedAddress{
		PostalCode: code,
		City:       body.City,
		State:      body.State,
		Street:     body.Street,
		District:   body.District,
	}, nil
}
