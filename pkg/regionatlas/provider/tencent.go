package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

const (
	TencentEndpoint = "https://cvm.tencentcloudapi.com/"

	tencentHost          = "cvm.tencentcloudapi.com"
	tencentService       = "cvm"
	tencentAction        = "DescribeRegions"
	tencentAPIVersion    = "2017-03-12"
	tencentAlgorithm     = "TC3-HMAC-SHA256"
	tencentContentType   = "application/json; charset=utf-8"
	tencentSignedHeaders = "content-type;host;x-tc-action;x-tc-timestamp;x-tc-version"
	tencentPayload       = "{}"
	tencentAvailable     = "AVAILABLE"
)

// Tencent signs the request headers with TC3-HMAC-SHA256
type Tencent struct {
	Endpoint  string
	SecretID  string
	SecretKey string
}

type tencentRegionsResponse struct {
	Response struct {
		RegionSet []tencentRegion `json:"RegionSet"`
		RequestID string          `json:"RequestId"`
		Error     *tencentError   `json:"Error"`
	} `json:"Response"`
}

type tencentRegion struct {
	Region      string `json:"Region"`
	RegionName  string `json:"RegionName"`
	RegionState string `json:"RegionState"`
}

type tencentError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

func (t *Tencent) Provider() regionmapper.Provider {
	return regionmapper.ProviderTencent
}

func (t *Tencent) NewRequest(ctx context.Context, now time.Time) (*http.Request, error) {
	if t.SecretID == "" || t.SecretKey == "" {
		return nil, ErrMissingCredentials
	}

	timestamp := now.Unix()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, strings.NewReader(tencentPayload))
	if err != nil {
		return nil, err
	}

	// The signed host is fixed even when Endpoint points elsewhere
	req.Host = tencentHost
	req.Header.Set("Authorization", t.Authorization(timestamp))
	req.Header.Set("Content-Type", tencentContentType)
	req.Header.Set("X-TC-Action", tencentAction)
	req.Header.Set("X-TC-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-TC-Version", tencentAPIVersion)
	return req, nil
}

// ParseRegions keeps regions in the AVAILABLE state. An error object inside
// a 200 response is reported as a failure.
func (t *Tencent) ParseRegions(body []byte) ([]RawRegion, error) {
	var resp tencentRegionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding tencent regions: %w", err)
	}

	if e := resp.Response.Error; e != nil {
		return nil, fmt.Errorf("tencent api error %s: %s", e.Code, e.Message)
	}

	regions := make([]RawRegion, 0, len(resp.Response.RegionSet))
	for _, r := range resp.Response.RegionSet {
		regions = append(regions, RawRegion{
			ID:        r.Region,
			Name:      r.RegionName,
			Available: r.RegionState == tencentAvailable,
		})
	}
	return regions, nil
}

// Authorization builds the TC3 authorization header for timestamp
func (t *Tencent) Authorization(timestamp int64) string {
	date := time.Unix(timestamp, 0).UTC().Format("2006-01-02")
	scope := date + "/" + tencentService + "/tc3_request"

	stringToSign := strings.Join([]string{
		tencentAlgorithm,
		strconv.FormatInt(timestamp, 10),
		scope,
		sha256Hex(tc3CanonicalRequest(timestamp)),
	}, "\n")

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		tencentAlgorithm, t.SecretID, scope, tencentSignedHeaders,
		tc3Signature(t.SecretKey, date, stringToSign))
}

func tc3CanonicalRequest(timestamp int64) string {
	canonicalHeaders := "content-type:" + tencentContentType + "\n" +
		"host:" + tencentHost + "\n" +
		"x-tc-action:" + strings.ToLower(tencentAction) + "\n" +
		"x-tc-timestamp:" + strconv.FormatInt(timestamp, 10) + "\n" +
		"x-tc-version:" + tencentAPIVersion + "\n"

	return strings.Join([]string{
		http.MethodPost,
		"/",
		"",
		canonicalHeaders,
		tencentSignedHeaders,
		sha256Hex(tencentPayload),
	}, "\n")
}

func tc3Signature(secretKey, date, stringToSign string) string {
	secretDate := hmacSHA256([]byte("TC3"+secretKey), date)
	secretService := hmacSHA256(secretDate, tencentService)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	return hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
