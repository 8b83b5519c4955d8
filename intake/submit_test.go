package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	err     error
	release chan struct{} // when set, Upload blocks until closed
}

func (f *fakeUploader) Upload(ctx context.Context, files []File) ([]string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	urls := make([]string, len(files))
	for i, file := range files {
		urls[i] = "https://blobs.example.com/" + file.Name
	}
	return urls, nil
}

type fakeGeocoder struct {
	point orb.Point
	err   error
	addrs []string
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address string) (orb.Point, error) {
	f.addrs = append(f.addrs, address)
	if f.err != nil {
		return orb.Point{}, f.err
	}
	return f.point, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	handoffs []HandoffRecord
	sites    []SiteRecord
	clients  []ClientRecord
	siteErr  error
	failSite int // 1-based index of the CreateSite call that fails
}

func (f *fakeRecorder) CreateHandoff(ctx context.Context, rec HandoffRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handoffs = append(f.handoffs, rec)
	return fmt.Sprintf("handoff-%d", len(f.handoffs)), nil
}

func (f *fakeRecorder) CreateSite(ctx context.Context, rec SiteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.siteErr != nil && len(f.sites)+1 == f.failSite {
		return f.siteErr
	}
	f.sites = append(f.sites, rec)
	return nil
}

func (f *fakeRecorder) CreateClient(ctx context.Context, rec ClientRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients = append(f.clients, rec)
	return nil
}

func testSubmission() Submission {
	d := completeDraft()
	return Submission{
		Draft: d,
		Sites: []SiteRow{
			{
				RowID: 1, Store: "Store 1", Address: "1 Elm St", City: "Boston", State: "MA", Zipcode: "02101",
				Cells: map[string]string{"Snow Plowing": "150.50"},
			},
			{
				RowID: 2, Store: "Store 2", Address: "2 Oak Ave", City: "Salem", State: "MA", Zipcode: "01970",
				Cells: map[string]string{"Snow Plowing": "90"},
			},
		},
		PricingColumns: []PricingItem{
			{ID: "col-1", Column: "Snow Plowing", Name: "Snow Plowing", Service: "Snow Plowing", Unit: "Service", Volume: "0"},
		},
		Contracts: []File{
			{Name: "contract.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
		},
		Actor:      "Sam Seller",
		ActorEmail: "sam@example.com",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	uploader := &fakeUploader{}
	geocoder := &fakeGeocoder{point: orb.Point{-71.06, 42.36}}
	recorder := &fakeRecorder{}
	s := NewSubmitter(uploader, geocoder, recorder)
	s.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

	sub := testSubmission()
	id, err := s.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "handoff-1" {
		t.Errorf("id = %q", id)
	}

	if len(recorder.handoffs) != 1 {
		t.Fatalf("handoffs written = %d", len(recorder.handoffs))
	}
	h := recorder.handoffs[0]
	if h.ContractURL != "https://blobs.example.com/contract.pdf" {
		t.Errorf("contract url = %q", h.ContractURL)
	}
	if h.NumberOfSites != 2 {
		t.Errorf("numberOfSites = %d, expected 2", h.NumberOfSites)
	}
	if h.CreatedAt != "2024-02-01T12:00:00Z" {
		t.Errorf("createdAt = %q", h.CreatedAt)
	}
	if len(h.Activity) != 1 || h.Activity[0].Action != "Created handoff" || h.Activity[0].User != "Sam Seller" {
		t.Errorf("activity = %+v", h.Activity)
	}

	if len(recorder.sites) != 2 {
		t.Fatalf("sites written = %d", len(recorder.sites))
	}
	site := recorder.sites[0]
	if site.HandoffID != "handoff-1" {
		t.Errorf("site handoff id = %q", site.HandoffID)
	}
	if site.Lat != 42.36 || site.Lng != -71.06 {
		t.Errorf("site point = (%v, %v)", site.Lat, site.Lng)
	}
	if len(site.ServiceLines) != 1 || len(site.ServiceLines[0].Pricing) != 1 {
		t.Fatalf("site service lines = %+v", site.ServiceLines)
	}
	if got := site.ServiceLines[0].Pricing[0].Price; got != 150.50 {
		t.Errorf("site 1 price = %v, expected the row's own cell value", got)
	}
	if got := recorder.sites[1].ServiceLines[0].Pricing[0].Price; got != 90 {
		t.Errorf("site 2 price = %v, expected 90", got)
	}

	// Addresses are assembled before lookup.
	if len(geocoder.addrs) != 2 || geocoder.addrs[0] != "1 Elm St, Boston, MA 02101" {
		t.Errorf("geocoded addresses = %v", geocoder.addrs)
	}

	// No newClient flag, no client record.
	if len(recorder.clients) != 0 {
		t.Errorf("clients written = %d, expected 0", len(recorder.clients))
	}

	// Success resets the draft to its defaults.
	if sub.Draft.Client != "" || sub.Draft.ServiceLine.Name != "Snow" {
		t.Errorf("draft not reset after success: %+v", sub.Draft)
	}
}

func TestSubmitNewClient(t *testing.T) {
	uploader := &fakeUploader{}
	geocoder := &fakeGeocoder{}
	recorder := &fakeRecorder{}
	s := NewSubmitter(uploader, geocoder, recorder)

	sub := testSubmission()
	sub.Draft.NewClient = true
	sub.Draft.Contact = Contact{Name: "Jo", Email: "jo@acme.com", Phone: "555", NoContact: true}

	if _, err := s.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(recorder.clients) != 1 {
		t.Fatalf("clients written = %d, expected 1", len(recorder.clients))
	}
	c := recorder.clients[0]
	if c.Client != "Acme Corp" || c.HandoffID != "handoff-1" {
		t.Errorf("client record = %+v", c)
	}
	// noContact collapses the text fields on the persisted record too.
	if c.Contact.Name != "" || !c.Contact.NoContact {
		t.Errorf("contact not collapsed: %+v", c.Contact)
	}
	if len(c.Activity) != 1 || c.Activity[0].Action != "Created client for handoff" {
		t.Errorf("client activity = %+v", c.Activity)
	}
}

func TestSubmitRejectsIncompleteDraft(t *testing.T) {
	uploader := &fakeUploader{}
	recorder := &fakeRecorder{}
	s := NewSubmitter(uploader, &fakeGeocoder{}, recorder)

	sub := testSubmission()
	sub.Draft.Client = ""

	_, err := s.Submit(context.Background(), sub)
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if err.Error() != "Failed to submit handoff. Please try again." {
		t.Errorf("user-facing message = %q", err.Error())
	}
	if uploader.calls != 0 {
		t.Error("validation failure should not reach the uploader")
	}
	if sub.Draft.Address == "" {
		t.Error("failed submit must not reset the draft")
	}
}

func TestSubmitGeocodeFailureIsNonFatal(t *testing.T) {
	recorder := &fakeRecorder{}
	s := NewSubmitter(&fakeUploader{}, &fakeGeocoder{err: errors.New("quota exceeded")}, recorder)

	if _, err := s.Submit(context.Background(), testSubmission()); err != nil {
		t.Fatalf("geocode errors must not abort the pipeline: %v", err)
	}
	for i, site := range recorder.sites {
		if site.Lat != 0 || site.Lng != 0 {
			t.Errorf("site %d point = (%v, %v), expected (0, 0)", i, site.Lat, site.Lng)
		}
	}
}

func TestSubmitSiteFailureKeepsEarlierRecords(t *testing.T) {
	recorder := &fakeRecorder{siteErr: errors.New("connection reset"), failSite: 2}
	s := NewSubmitter(&fakeUploader{}, &fakeGeocoder{}, recorder)

	sub := testSubmission()
	sub.Draft.NewClient = true
	sub.Draft.Contact = Contact{NoContact: true}

	_, err := s.Submit(context.Background(), sub)
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}

	// Best effort: the handoff and first site stay written, nothing after the
	// failure runs.
	if len(recorder.handoffs) != 1 {
		t.Errorf("handoffs written = %d, expected 1", len(recorder.handoffs))
	}
	if len(recorder.sites) != 1 {
		t.Errorf("sites written = %d, expected 1", len(recorder.sites))
	}
	if len(recorder.clients) != 0 {
		t.Errorf("clients written = %d, expected 0", len(recorder.clients))
	}
	if sub.Draft.Client == "" {
		t.Error("failed submit must not reset the draft")
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	uploader := &fakeUploader{release: release}
	recorder := &fakeRecorder{}
	s := NewSubmitter(uploader, &fakeGeocoder{}, recorder)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), testSubmission())
		done <- err
	}()

	// Wait for the first submission to enter the uploader.
	for {
		uploader.mu.Lock()
		started := uploader.calls > 0
		uploader.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.Submit(context.Background(), testSubmission()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("second submit = %v, expected ErrSubmissionInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// The duplicate performed no work: exactly one pipeline ran.
	if uploader.calls != 1 || len(recorder.handoffs) != 1 {
		t.Errorf("uploads = %d, handoffs = %d; duplicate must be a no-op", uploader.calls, len(recorder.handoffs))
	}

	// The guard clears once the first submission finishes.
	if _, err := s.Submit(context.Background(), testSubmission()); err != nil {
		t.Errorf("submit after completion: %v", err)
	}
}
