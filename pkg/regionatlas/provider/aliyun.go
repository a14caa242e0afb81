package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/elevated-systems/region-atlas/pkg/regionatlas/regionmapper"
)

const (
	AliyunEndpoint = "https://ecs.cn-hangzhou.aliyuncs.com/"

	aliyunAction           = "DescribeRegions"
	aliyunAPIVersion       = "2014-05-26"
	aliyunSignatureMethod  = "HMAC-SHA1"
	aliyunSignatureVersion = "1.0"
	aliyunTimestampFormat  = "2006-01-02T15:04:05Z"
)

// Aliyun signs the query string with HMAC-SHA1 (RPC signature version 1.0)
type Aliyun struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
}

type aliyunRegionsResponse struct {
	RequestID string `json:"RequestId"`
	Regions   struct {
		Region []aliyunRegion `json:"Region"`
	} `json:"Regions"`
}

type aliyunRegion struct {
	RegionID       string `json:"RegionId"`
	LocalName      string `json:"LocalName"`
	RegionEndpoint string `json:"RegionEndpoint"`
}

func (a *Aliyun) Provider() regionmapper.Provider {
	return regionmapper.ProviderAliyun
}

// QueryParams returns the unsigned request parameters for the given time.
// The nonce is the microsecond timestamp.
func (a *Aliyun) QueryParams(now time.Time) map[string]string {
	return map[string]string{
		"AccessKeyId":      a.AccessKeyID,
		"Action":           aliyunAction,
		"Format":           "JSON",
		"SignatureMethod":  aliyunSignatureMethod,
		"SignatureNonce":   strconv.FormatInt(now.UnixMicro(), 10),
		"SignatureVersion": aliyunSignatureVersion,
		"Timestamp":        now.UTC().Format(aliyunTimestampFormat),
		"Version":          aliyunAPIVersion,
	}
}

func (a *Aliyun) NewRequest(ctx context.Context, now time.Time) (*http.Request, error) {
	if a.AccessKeyID == "" || a.AccessKeySecret == "" {
		return nil, ErrMissingCredentials
	}

	params := a.QueryParams(now)
	params["Signature"] = SignQuery(params, a.AccessKeySecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Endpoint+"?"+CanonicalQuery(params), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (a *Aliyun) ParseRegions(body []byte) ([]RawRegion, error) {
	var resp aliyunRegionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding aliyun regions: %w", err)
	}

	regions := make([]RawRegion, 0, len(resp.Regions.Region))
	for _, r := range resp.Regions.Region {
		regions = append(regions, RawRegion{ID: r.RegionID, Name: r.LocalName, Available: true})
	}
	return regions, nil
}

// CanonicalQuery joins the percent-encoded parameters in key order
func CanonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	return strings.Join(pairs, "&")
}

// SignQuery returns the base64 HMAC-SHA1 signature of params
func SignQuery(params map[string]string, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(aliyunStringToSign(params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func aliyunStringToSign(params map[string]string) string {
	return http.MethodGet + "&" + percentEncode("/") + "&" + percentEncode(CanonicalQuery(params))
}

// percentEncode is RFC 3986 encoding: only unreserved characters stay literal
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
