package collector

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"EconDashboard/internal/cache"
)

const cciCSV = `LOCATION,INDICATOR,SUBJECT,MEASURE,FREQUENCY,TIME,Value,Flag Codes
IRL,CCI,AMPLITUD,LTRENDIDX,M,2019-01,98.5,
IRL,CCI,AMPLITUD,LTRENDIDX,M,2019-02,98.9,
DEU,CCI,AMPLITUD,LTRENDIDX,M,2019-01,101.2,
DEU,CCI,AMPLITUD,LTRENDIDX,M,2019-02,101.0,
OECDE,CCI,AMPLITUD,LTRENDIDX,M,2019-02,99.7,
`

const bciCSV = `LOCATION,INDICATOR,SUBJECT,MEASURE,FREQUENCY,TIME,Value,Flag Codes
IRL,BCI,AMPLITUD,LTRENDIDX,M,2019-01,100.1,
DEU,BCI,AMPLITUD,LTRENDIDX,M,2019-01,100.9,
DEU,BCI,AMPLITUD,LTRENDIDX,M,2019-02,100.4,
`

const cissCSV = "\ufeffKEY,FREQ,REF_AREA,REF_AREA_GRP,PROVIDER_FM,DATA_TYPE_FM,SOURCE_PUB,TIME_PERIOD,OBS_VALUE,OBS_STATUS\n" +
	"CISS.D.DE.Z0Z.4F.EC.SS_CIN.IDX,D,DE,Z0Z,4F,EC,SS_CIN,2000-01-03,0.0712,A\n" +
	"CISS.D.DE.Z0Z.4F.EC.SS_CIN.IDX,D,DE,Z0Z,4F,EC,SS_CIN,2000-01-04,0.0698,A\n" +
	"CISS.D.DE.Z0Z.4F.EC.SS_CIN.IDX,D,DE,Z0Z,4F,EC,SS_CIN,2000-01-05,0.0755,A\n"

// upstream records the requests an httptest server receives.
type upstream struct {
	mu       sync.Mutex
	requests []*http.Request
	server   *httptest.Server
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.Clone(r.Context()))
		u.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *upstream) last() *http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return nil
	}
	return u.requests[len(u.requests)-1]
}

func testClient(provider string, c cache.Cache) *Client {
	return NewClient(provider, ClientOptions{
		Timeout: 5 * time.Second,
		Retries: 2,
		Backoff: time.Millisecond,
		Cache:   c,
	})
}
