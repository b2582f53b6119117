package azure_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/azure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var content = moderation.ContentItem{ID: "c1", Text: "I will hurt you", AuthorID: "u1", RoomID: "r1"}

type staticCredential struct{}

func (staticCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "entra-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func newServer(t *testing.T, wantAuth func(r *http.Request) bool, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contentsafety/text:analyze", r.URL.Path)
		assert.Equal(t, "2023-10-01", r.URL.Query().Get("api-version"))
		assert.True(t, wantAuth(r))

		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, content.Text, req["text"])
		assert.Equal(t, "EightSeverityLevels", req["outputType"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestProvider_Analyze_SubscriptionKey(t *testing.T) {
	srv := newServer(t, func(r *http.Request) bool {
		return r.Header.Get("Ocp-Apim-Subscription-Key") == "azure-key"
	}, `{"blocklistsMatch":[],"categoriesAnalysis":[{"category":"Violence","severity":6},{"category":"Hate","severity":0}]}`)
	defer srv.Close()

	p := azure.NewContentSafetyProvider(srv.Client(), nil)
	resp, err := p.Analyze(context.Background(), content, moderation.AnalysisToxicity, &providers.Config{
		Endpoint:    srv.URL,
		Credentials: providers.Credentials{ApiKey: "azure-key"},
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.DecisionBlock, resp.Decision)
	assert.InDelta(t, 6.0/7.0, resp.Confidence, 1e-9)
	assert.Equal(t, "Violence severity 6 of 7", resp.Reasoning)
}

func TestProvider_Analyze_EntraToken(t *testing.T) {
	srv := newServer(t, func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer entra-token"
	}, `{"categoriesAnalysis":[{"category":"Hate","severity":0}]}`)
	defer srv.Close()

	p := azure.NewContentSafetyProvider(srv.Client(), staticCredential{})
	resp, err := p.Analyze(context.Background(), content, moderation.AnalysisGeneral, &providers.Config{
		Endpoint:    srv.URL + "/",
		Credentials: providers.Credentials{UseIdentity: true},
	})

	require.NoError(t, err)
	assert.Equal(t, moderation.DecisionApprove, resp.Decision)
	assert.Equal(t, 1.0, resp.Confidence)
}

func TestProvider_Analyze_BlocklistMatchBlocks(t *testing.T) {
	srv := newServer(t, func(r *http.Request) bool { return true },
		`{"blocklistsMatch":[{"blocklistName":"room-slurs","blocklistItemText":"x"}],"categoriesAnalysis":[]}`)
	defer srv.Close()

	resp, err := azure.NewContentSafetyProvider(srv.Client(), nil).Analyze(context.Background(), content,
		moderation.AnalysisToxicity, &providers.Config{Endpoint: srv.URL, Credentials: providers.Credentials{ApiKey: "k"}})

	require.NoError(t, err)
	assert.Equal(t, moderation.DecisionBlock, resp.Decision)
	assert.Equal(t, 1.0, resp.Confidence)
}

func TestProvider_Analyze_RequiresEndpointAndKey(t *testing.T) {
	p := azure.NewContentSafetyProvider(http.DefaultClient, nil)
	_, err := p.Analyze(context.Background(), content, moderation.AnalysisToxicity, &providers.Config{})
	assert.Error(t, err)

	_, err = p.Analyze(context.Background(), content, moderation.AnalysisToxicity, &providers.Config{Endpoint: "http://localhost"})
	assert.Error(t, err)
}
