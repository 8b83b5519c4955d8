package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
)

// File is an attached upload: a contract document heading to blob storage.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores files and returns one URL per input, in input order.
type Uploader interface {
	Upload(ctx context.Context, files []File) ([]string, error)
}

// Geocoder resolves a free-form address to a point (lon, lat). Zero results
// is not an error; implementations return the zero point.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (orb.Point, error)
}

// Recorder persists the pipeline's output records. CreateHandoff returns the
// backend-assigned id that site and client records reference.
type Recorder interface {
	CreateHandoff(ctx context.Context, rec HandoffRecord) (string, error)
	CreateSite(ctx context.Context, rec SiteRecord) error
	CreateClient(ctx context.Context, rec ClientRecord) error
}

// HandoffRecord is the primary persisted record: the draft plus bookkeeping
// fields set once at submission.
type HandoffRecord struct {
	Draft
	ContractURL    string          `json:"contractUrl"`
	NumberOfSites  int             `json:"numberOfSites"`
	Documents      []DocumentRef   `json:"documents"`
	CreatedBy      string          `json:"createdBy"`
	CreatedByEmail string          `json:"createdByEmail"`
	CreatedAt      string          `json:"createdAt"`
	Activity       []ActivityEntry `json:"activity"`
}

// SiteRecord is one persisted service location derived from a spreadsheet row.
type SiteRecord struct {
	Store          string          `json:"store"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Zipcode        string          `json:"zipcode"`
	SiteMapURL     string          `json:"siteMapUrl"`
	Lat            float64         `json:"lat"`
	Lng            float64         `json:"lng"`
	Client         string          `json:"client"`
	ServiceLines   []ServiceLine   `json:"serviceLines"`
	HandoffID      string          `json:"handoffId"`
	Subcontractors []string        `json:"subcontractors"`
	Status         string          `json:"status"`
	Activity       []ActivityEntry `json:"activity"`
	Software       string          `json:"software"`
}

// ClientRecord is persisted only when the draft flags a new client.
type ClientRecord struct {
	Client                    string          `json:"client"`
	Address                   string          `json:"address"`
	Lat                       float64         `json:"lat"`
	Lng                       float64         `json:"lng"`
	Contact                   Contact         `json:"contact"`
	BillingContact            Contact         `json:"billingContact"`
	Documents                 []DocumentRef   `json:"documents"`
	ServiceLines              []ServiceLine   `json:"serviceLines"`
	Software                  string          `json:"software"`
	Status                    string          `json:"status"`
	PaymentMethod             string          `json:"paymentMethod"`
	ThirdPartyPaymentProvider string          `json:"thirdPartyPaymentProvider"`
	CreatedBy                 string          `json:"createdBy"`
	CreatedByEmail            string          `json:"createdByEmail"`
	CreatedAt                 string          `json:"createdAt"`
	Activity                  []ActivityEntry `json:"activity"`
	HandoffID                 string          `json:"handoffId"`
}

// Submission is everything the pipeline needs for one submit.
type Submission struct {
	Draft          *Draft
	Sites          []SiteRow
	PricingColumns []PricingItem
	Contracts      []File
	Actor          string
	ActorEmail     string
}

// ErrSubmissionInFlight is returned when Submit is invoked while a previous
// submission is still outstanding. The duplicate call performs no I/O.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// SubmissionError wraps any pipeline failure behind the single user-facing
// message. The cause stays reachable through Unwrap for logging.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "Failed to submit handoff. Please try again."
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Submitter orchestrates the ordered submit sequence: upload contracts,
// persist the handoff, geocode and persist every site, and persist a client
// record when requested. The sequence is best-effort: a failure aborts the
// remaining steps, and records already written stay written.
type Submitter struct {
	uploader Uploader
	geocoder Geocoder
	recorder Recorder
	inFlight atomic.Bool
	now      func() time.Time
}

// NewSubmitter wires a pipeline from its collaborators.
func NewSubmitter(u Uploader, g Geocoder, r Recorder) *Submitter {
	return &Submitter{uploader: u, geocoder: g, recorder: r, now: time.Now}
}

// Submit runs the pipeline and returns the persisted handoff id. Re-entry
// while a submission is outstanding returns ErrSubmissionInFlight. On
// success the draft is reset to its defaults.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (string, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	if report := Validate(sub.Draft, len(sub.Sites), len(sub.Contracts) > 0); !report.AllSatisfied {
		return "", &SubmissionError{Err: fmt.Errorf("%d required fields incomplete", len(report.Missing()))}
	}

	id, err := s.run(ctx, sub)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	sub.Draft.Reset()
	return id, nil
}

func (s *Submitter) run(ctx context.Context, sub Submission) (string, error) {
	urls, err := s.uploader.Upload(ctx, sub.Contracts)
	if err != nil {
		return "", fmt.Errorf("upload contracts: %w", err)
	}

	now := s.now()
	createdAt := now.UTC().Format(time.RFC3339)
	docs := make([]DocumentRef, len(sub.Contracts))
	for i, c := range sub.Contracts {
		docs[i] = DocumentRef{Name: c.Name, URL: urls[i]}
	}

	handoff := HandoffRecord{
		Draft:          *sub.Draft,
		ContractURL:    urls[0],
		NumberOfSites:  len(sub.Sites),
		Documents:      docs,
		CreatedBy:      sub.Actor,
		CreatedByEmail: sub.ActorEmail,
		CreatedAt:      createdAt,
		Activity: []ActivityEntry{
			{Date: now.UnixMilli(), User: sub.Actor, Action: "Created handoff"},
		},
	}

	handoffID, err := s.recorder.CreateHandoff(ctx, handoff)
	if err != nil {
		return "", fmt.Errorf("create handoff: %w", err)
	}

	// Geocode the whole batch before any site write. A miss or lookup error
	// on one address is non-fatal; that row keeps (0, 0).
	points := make([]orb.Point, len(sub.Sites))
	for i, site := range sub.Sites {
		addr := fmt.Sprintf("%s, %s, %s %s", site.Address, site.City, site.State, site.Zipcode)
		pt, err := s.geocoder.Resolve(ctx, addr)
		if err != nil {
			pt = orb.Point{}
		}
		points[i] = pt
	}

	client := strings.TrimSpace(sub.Draft.Client)
	for i, site := range sub.Sites {
		line := sub.Draft.ServiceLine
		pricing := make([]PricingItem, len(sub.PricingColumns))
		for j, col := range sub.PricingColumns {
			col.Price = site.PriceFor(col.Column)
			pricing[j] = col
		}
		line.Pricing = pricing

		rec := SiteRecord{
			Store:          site.Store,
			Address:        site.Address,
			City:           site.City,
			State:          site.State,
			Zipcode:        site.Zipcode,
			SiteMapURL:     site.SiteMapURL,
			Lat:            points[i].Lat(),
			Lng:            points[i].Lon(),
			Client:         client,
			ServiceLines:   []ServiceLine{line},
			HandoffID:      handoffID,
			Subcontractors: []string{},
			Status:         "Pending",
			Activity: []ActivityEntry{
				{Date: now.UnixMilli(), User: sub.Actor, Action: "Created site for handoff"},
			},
			Software: sub.Draft.Software,
		}
		if err := s.recorder.CreateSite(ctx, rec); err != nil {
			return "", fmt.Errorf("create site %d: %w", site.RowID, err)
		}
	}

	if sub.Draft.NewClient {
		rec := ClientRecord{
			Client:                    client,
			Address:                   sub.Draft.Address,
			Lat:                       sub.Draft.Lat,
			Lng:                       sub.Draft.Lng,
			Contact:                   collapseContact(sub.Draft.Contact),
			BillingContact:            collapseContact(sub.Draft.BillingContact),
			Documents:                 docs,
			ServiceLines:              []ServiceLine{sub.Draft.ServiceLine},
			Software:                  sub.Draft.Software,
			Status:                    "Pending",
			PaymentMethod:             sub.Draft.PaymentMethod,
			ThirdPartyPaymentProvider: sub.Draft.ThirdPartyPaymentProvider,
			CreatedBy:                 sub.Actor,
			CreatedByEmail:            sub.ActorEmail,
			CreatedAt:                 createdAt,
			Activity: []ActivityEntry{
				{Date: now.UnixMilli(), User: sub.Actor, Action: "Created client for handoff"},
			},
			HandoffID: handoffID,
		}
		if err := s.recorder.CreateClient(ctx, rec); err != nil {
			return "", fmt.Errorf("create client: %w", err)
		}
	}

	return handoffID, nil
}
