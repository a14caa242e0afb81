package provider

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signingTime = time.Unix(1700000000, 123456000).UTC()

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"a b*c~d/e+f", "a%20b%2Ac~d%2Fe%2Bf"},
		{"2023-11-14T22:13:20Z", "2023-11-14T22%3A13%3A20Z"},
		{"-_.~", "-_.~"},
		{"=&", "%3D%26"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, percentEncode(tt.in), "percentEncode(%q)", tt.in)
	}
}

func TestAliyunQueryParams(t *testing.T) {
	a := &Aliyun{AccessKeyID: "testid", AccessKeySecret: "testsecret"}
	params := a.QueryParams(signingTime)

	assert.Equal(t, "1700000000123456", params["SignatureNonce"])
	assert.Equal(t, "2023-11-14T22:13:20Z", params["Timestamp"])
	assert.Equal(t, "DescribeRegions", params["Action"])
	assert.Equal(t, "2014-05-26", params["Version"])
	assert.Equal(t, "HMAC-SHA1", params["SignatureMethod"])
	assert.Equal(t, "1.0", params["SignatureVersion"])
	assert.Equal(t, "JSON", params["Format"])
	assert.NotContains(t, params, "Signature")
}

func TestAliyunSignature(t *testing.T) {
	a := &Aliyun{AccessKeyID: "testid", AccessKeySecret: "testsecret"}
	params := a.QueryParams(signingTime)

	assert.Equal(t,
		"AccessKeyId=testid&Action=DescribeRegions&Format=JSON&SignatureMethod=HMAC-SHA1"+
			"&SignatureNonce=1700000000123456&SignatureVersion=1.0"+
			"&Timestamp=2023-11-14T22%3A13%3A20Z&Version=2014-05-26",
		CanonicalQuery(params))

	assert.Equal(t,
		"GET&%2F&AccessKeyId%3Dtestid%26Action%3DDescribeRegions%26Format%3DJSON"+
			"%26SignatureMethod%3DHMAC-SHA1%26SignatureNonce%3D1700000000123456"+
			"%26SignatureVersion%3D1.0%26Timestamp%3D2023-11-14T22%253A13%253A20Z"+
			"%26Version%3D2014-05-26",
		aliyunStringToSign(params))

	assert.Equal(t, "korrIBgpgpo3irCrdOczjHQRAWo=", SignQuery(params, "testsecret"))
}

func TestAliyunSignatureDependsOnInputs(t *testing.T) {
	a := &Aliyun{AccessKeyID: "testid", AccessKeySecret: "testsecret"}
	base := SignQuery(a.QueryParams(signingTime), "testsecret")

	assert.NotEqual(t, base, SignQuery(a.QueryParams(signingTime), "othersecret"))
	assert.NotEqual(t, base, SignQuery(a.QueryParams(signingTime.Add(time.Microsecond)), "testsecret"))
	assert.Equal(t, base, SignQuery(a.QueryParams(signingTime), "testsecret"))
}

func TestAliyunRequest(t *testing.T) {
	a := &Aliyun{Endpoint: AliyunEndpoint, AccessKeyID: "testid", AccessKeySecret: "testsecret"}

	req, err := a.NewRequest(context.Background(), signingTime)
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "ecs.cn-hangzhou.aliyuncs.com", req.URL.Host)

	query, err := url.ParseQuery(req.URL.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "korrIBgpgpo3irCrdOczjHQRAWo=", query.Get("Signature"))
	assert.Equal(t, "testid", query.Get("AccessKeyId"))
}

func TestAliyunRequestRequiresCredentials(t *testing.T) {
	a := &Aliyun{Endpoint: AliyunEndpoint, AccessKeyID: "testid"}

	_, err := a.NewRequest(context.Background(), signingTime)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTencentCanonicalRequest(t *testing.T) {
	assert.Equal(t,
		"44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a",
		sha256Hex("{}"))

	cr := tc3CanonicalRequest(1700000000)
	assert.Equal(t,
		"POST\n/\n\n"+
			"content-type:application/json; charset=utf-8\n"+
			"host:cvm.tencentcloudapi.com\n"+
			"x-tc-action:describeregions\n"+
			"x-tc-timestamp:1700000000\n"+
			"x-tc-version:2017-03-12\n\n"+
			"content-type;host;x-tc-action;x-tc-timestamp;x-tc-version\n"+
			"44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a",
		cr)
	assert.Equal(t,
		"7d921a3b95b14e6ebfc0f170e63b5be5d965da972879ad40dcf74df3f3e959bd",
		sha256Hex(cr))
}

func TestTencentAuthorization(t *testing.T) {
	tc := &Tencent{SecretID: "AKIDtest", SecretKey: "testkey"}

	assert.Equal(t,
		"TC3-HMAC-SHA256 Credential=AKIDtest/2023-11-14/cvm/tc3_request, "+
			"SignedHeaders=content-type;host;x-tc-action;x-tc-timestamp;x-tc-version, "+
			"Signature=77333e91ee61e67abc5d6522c2dc60ea3db49dd5455b94e73880ef518745ffda",
		tc.Authorization(1700000000))

	other := &Tencent{SecretID: "AKIDtest", SecretKey: "otherkey"}
	assert.NotEqual(t, tc.Authorization(1700000000), other.Authorization(1700000000))
}

func TestTencentRequest(t *testing.T) {
	tc := &Tencent{Endpoint: TencentEndpoint, SecretID: "AKIDtest", SecretKey: "testkey"}

	req, err := tc.NewRequest(context.Background(), time.Unix(1700000000, 0))
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "cvm.tencentcloudapi.com", req.Host)
	assert.Equal(t, "DescribeRegions", req.Header.Get("X-TC-Action"))
	assert.Equal(t, "1700000000", req.Header.Get("X-TC-Timestamp"))
	assert.Equal(t, "2017-03-12", req.Header.Get("X-TC-Version"))
	assert.Equal(t, "application/json; charset=utf-8", req.Header.Get("Content-Type"))
	assert.Equal(t, tc.Authorization(1700000000), req.Header.Get("Authorization"))
}

func TestBearerRequestRequiresToken(t *testing.T) {
	_, err := (&Linode{BaseURL: LinodeBaseURL}).NewRequest(context.Background(), signingTime)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = (&DigitalOcean{BaseURL: DigitalOceanBaseURL}).NewRequest(context.Background(), signingTime)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	req, err := (&Linode{BaseURL: LinodeBaseURL, Token: "tok"}).NewRequest(context.Background(), signingTime)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	assert.Equal(t, "https://api.linode.com/v4/regions", req.URL.String())
}
