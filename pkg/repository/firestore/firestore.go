package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a document is missing
var ErrNotFound = interfaces.ErrNotFound

// Collection names without prefix
const (
	CollectionAssessments       = "assessments"
	CollectionLeads             = "leads"
	CollectionColumnPreferences = "column_preferences"
	CollectionOrganizations     = "organizations"
	CollectionUsers             = "users"
	CollectionContactMessages   = "contact_messages"
	CollectionServiceRequests   = "service_requests"
	CollectionEmailConfigs      = "email_configs"
)

// DocumentIDPath is the index field path of the document id
const DocumentIDPath = firestore.DocumentID

type Firestore struct {
	client *firestore.Client
	prefix string

	assessment     *assessmentRepository
	lead           *leadRepository
	preference     *columnPreferenceRepository
	organization   *organizationRepository
	user           *userRepository
	contactMessage *contactMessageRepository
	serviceRequest *serviceRequestRepository
	emailConfig    *emailConfigRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates every collection under "<prefix>_<name>"
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.prefix = prefix
	}
}

// New connects to the Firestore database. An empty databaseID selects "(default)".
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.assessment = &assessmentRepository{client: client, collection: f.CollectionName(CollectionAssessments)}
	f.lead = &leadRepository{client: client, collection: f.CollectionName(CollectionLeads)}
	f.preference = &columnPreferenceRepository{client: client, collection: f.CollectionName(CollectionColumnPreferences)}
	f.organization = &organizationRepository{client: client, collection: f.CollectionName(CollectionOrganizations)}
	f.user = &userRepository{client: client, collection: f.CollectionName(CollectionUsers)}
	f.contactMessage = &contactMessageRepository{client: client, collection: f.CollectionName(CollectionContactMessages)}
	f.serviceRequest = &serviceRequestRepository{client: client, collection: f.CollectionName(CollectionServiceRequests)}
	f.emailConfig = &emailConfigRepository{client: client, collection: f.CollectionName(CollectionEmailConfigs)}

	return f, nil
}

// CollectionName returns the prefixed collection name
func (f *Firestore) CollectionName(name string) string {
	return CollectionName(f.prefix, name)
}

// CollectionName returns "<prefix>_<name>", or name when prefix is empty
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) Lead() interfaces.LeadRepository {
	return f.lead
}

func (f *Firestore) ColumnPreference() interfaces.ColumnPreferenceRepository {
	return f.preference
}

func (f *Firestore) Organization() interfaces.OrganizationRepository {
	return f.organization
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) ContactMessage() interfaces.ContactMessageRepository {
	return f.contactMessage
}

func (f *Firestore) ServiceRequest() interfaces.ServiceRequestRepository {
	return f.serviceRequest
}

func (f *Firestore) EmailConfig() interfaces.EmailConfigRepository {
	return f.emailConfig
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// getDoc reads a document into D. found is false when the document does not exist.
func getDoc[D any](ctx context.Context, ref *firestore.DocumentRef) (doc *D, found bool, err error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to get document", goerr.V("path", ref.Path))
	}

	var d D
	if err := snap.DataTo(&d); err != nil {
		return nil, false, goerr.Wrap(err, "failed to decode document", goerr.V("path", ref.Path))
	}
	return &d, true, nil
}

// collect drains iter, decoding every document with DataTo and converting it with conv
func collect[D any, M any](iter *firestore.DocumentIterator, conv func(*D) *M) ([]*M, error) {
	defer iter.Stop()

	out := make([]*M, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var d D
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", snap.Ref.ID))
		}
		out = append(out, conv(&d))
	}
	return out, nil
}
