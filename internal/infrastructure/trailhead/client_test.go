package trailhead

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
)

func testQuery(name string) Query {
	for _, q := range Catalog("alice") {
		if q.Name == name {
			return q
		}
	}
	panic("unknown query " + name)
}

func graphqlStub(hits *atomic.Int64, data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":` + data + `}`))
	}
}

func TestClientRoutesStampsToMobileEndpoint(t *testing.T) {
	var profileHits, mobileHits atomic.Int64
	profile := httptest.NewServer(graphqlStub(&profileHits, `{"profile":{"trailheadStats":{}}}`))
	defer profile.Close()
	mobile := httptest.NewServer(graphqlStub(&mobileHits, `{"profile":{"communityStamps":{"totalCount":2}}}`))
	defer mobile.Close()

	client := NewClient(profile.URL, mobile.URL, 5*time.Second, nil)

	_, err := client.Fetch(context.Background(), testQuery(QueryRank))
	require.NoError(t, err)
	_, err = client.Fetch(context.Background(), testQuery(QueryStamps))
	require.NoError(t, err)

	assert.Equal(t, int64(1), profileHits.Load())
	assert.Equal(t, int64(1), mobileHits.Load())
}

func TestClientEmptyMobileEndpointFallsBack(t *testing.T) {
	var hits atomic.Int64
	profile := httptest.NewServer(graphqlStub(&hits, `{"profile":{"communityStamps":{"totalCount":0}}}`))
	defer profile.Close()

	client := NewClient(profile.URL, "", 5*time.Second, nil)

	_, err := client.Fetch(context.Background(), testQuery(QueryStamps))
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load())
}

func TestClientClassifiesHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, nil)

	_, err := client.Fetch(context.Background(), testQuery(QueryRank))
	require.Error(t, err)
	assert.True(t, bannererrors.IsKind(err, bannererrors.KindRateLimited))
}

func TestClientTreatsErrorsWithoutDataAsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"profile not found"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, nil)

	_, err := client.Fetch(context.Background(), testQuery(QueryRank))
	require.Error(t, err)
	assert.True(t, bannererrors.IsKind(err, bannererrors.KindNotFound))
}
