package salesforce

import (
	"context"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
)

// CredentialResolver turns one invocation's secret bag into an Authorization
// header value.
type CredentialResolver interface {
	Resolve(ctx context.Context, secrets core.Secrets) (string, error)
}

// Service sequences the three remote operations into one idempotent removal.
// It holds no state across invocations.
type Service struct {
	client   *Client
	resolver CredentialResolver
	config   core.Config
	logger   core.Logger
}

type Option func(*Service)

func WithLogger(logger core.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(client *Client, resolver CredentialResolver, cfg core.Config, opts ...Option) *Service {
	service := &Service{
		client:   client,
		resolver: resolver,
		config:   cfg,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(service)
	}
	service.logger = glog.Ensure(service.logger)
	return service
}

// Remove resolves the target address and credentials, looks up the user and
// the assignment, and deletes the assignment when it exists. Re-running after
// a successful removal, or when the assignment never existed, converges to
// the same reported absence without error. A cancellation signal observed
// between remote calls stops the sequence with a halt error; no in-flight
// call is aborted.
func (s *Service) Remove(ctx context.Context, params core.RemovalParams, secrets core.Secrets) (core.RemovalOutcome, error) {
	if err := params.Validate(); err != nil {
		return core.RemovalOutcome{}, err
	}

	address, err := ResolveAddress(params.Address, s.config.Address)
	if err != nil {
		return core.RemovalOutcome{}, err
	}

	if err := haltIfCancelled(ctx, "credential resolution"); err != nil {
		return core.RemovalOutcome{}, err
	}
	authorization, err := s.resolver.Resolve(ctx, secrets)
	if err != nil {
		return core.RemovalOutcome{}, err
	}
	headers := map[string]string{"Authorization": authorization}

	if err := haltIfCancelled(ctx, "user lookup"); err != nil {
		return core.RemovalOutcome{}, err
	}
	user, err := s.client.FindUserID(ctx, address, headers, params.UserKey)
	if err != nil {
		return core.RemovalOutcome{}, err
	}
	if user.Empty() {
		return core.RemovalOutcome{}, core.NewUserNotFoundError(params.UserKey)
	}
	s.logStep(ctx, "user resolved", map[string]any{
		"user_key": params.UserKey,
		"user_id":  user.ID,
		"matches":  user.Total,
	})

	if err := haltIfCancelled(ctx, "assignment lookup"); err != nil {
		return core.RemovalOutcome{}, err
	}
	assignment, err := s.client.FindAssignment(ctx, address, headers, user.ID, params.PermissionSetID)
	if err != nil {
		return core.RemovalOutcome{}, err
	}

	outcome := core.RemovalOutcome{
		Status:          core.StatusSuccess,
		UserKey:         strings.TrimSpace(params.UserKey),
		UserID:          user.ID,
		PermissionSetID: strings.TrimSpace(params.PermissionSetID),
		Address:         address,
	}

	if assignment.Empty() {
		// Already absent: the converged end state, not an error.
		s.logStep(ctx, "assignment already absent", map[string]any{
			"user_id":           user.ID,
			"permission_set_id": params.PermissionSetID,
		})
		return outcome, nil
	}

	if err := haltIfCancelled(ctx, "assignment delete"); err != nil {
		return core.RemovalOutcome{}, err
	}
	if err := s.client.DeleteAssignment(ctx, address, headers, assignment.ID); err != nil {
		return core.RemovalOutcome{}, err
	}

	assignmentID := assignment.ID
	outcome.AssignmentID = &assignmentID
	outcome.Removed = true
	s.logStep(ctx, "assignment removed", map[string]any{
		"user_id":           user.ID,
		"permission_set_id": params.PermissionSetID,
		"assignment_id":     assignment.ID,
	})
	return outcome, nil
}

func haltIfCancelled(ctx context.Context, step string) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return core.NewHaltedError(step, err)
	}
	return nil
}

func (s *Service) logStep(ctx context.Context, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		fieldsLogger.WithFields(fields).Info(message)
		return
	}
	logger.Info(message, flattenFields(fields)...)
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
