package config

import (
	"fmt"
	"net/url"
	"strings"

	"raccoon/internal/reconciler"
	"raccoon/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, purpose string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", purpose),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateURL checks that value is an absolute http or https URL. Empty
// values pass; pair with ValidateRequired when the field is mandatory.
func ValidateURL(field, value string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be an absolute http(s) URL",
		}
	}
	return nil
}

// Validate checks a fully merged configuration. filePath is only used to
// annotate the returned errors.
func Validate(cfg RaccoonConfig, filePath string) error {
	errs := NewConfigurationErrorCollection()
	add := func(err error, suggestions ...string) {
		if err == nil {
			return
		}
		if ve, ok := err.(ValidationError); ok {
			errs.AddValidation(filePath, ve.Field, ve.Message, suggestions...)
			return
		}
		errs.Add(NewConfigurationErrorWithDetails(filePath, ErrorTypeValidation, err.Error(), "", suggestions))
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		add(ValidationError{Field: "server.port", Value: cfg.Server.Port, Message: "must be between 1 and 65535"})
	}

	add(ValidateOneOf("logging.level", strings.ToLower(cfg.Logging.Level), []string{"debug", "info", "warn", "error"}))
	add(ValidateOneOf("logging.format", cfg.Logging.Format, []string{string(logging.FormatText), string(logging.FormatJSON)}))

	if cfg.Pacing.NotificationDelaySeconds < 0 {
		add(ValidationError{Field: "pacing.notificationDelaySeconds", Message: "must not be negative"})
	}
	if cfg.Pacing.DeletionDelaySeconds < 0 {
		add(ValidationError{Field: "pacing.deletionDelaySeconds", Message: "must not be negative"})
	}

	if cfg.Schedule != "" {
		if err := reconciler.ValidateSchedule(cfg.Schedule); err != nil {
			add(ValidationError{Field: "schedule", Value: cfg.Schedule, Message: err.Error()},
				`use five cron fields such as "0 * * * *" or a descriptor such as "@hourly"`)
		}
	}

	add(ValidateURL("rdpc.url", cfg.RDPC.URL))
	add(ValidateURL("rdpc.tokenUrl", cfg.RDPC.TokenURL))
	if cfg.RDPC.TokenURL != "" {
		add(ValidateRequired("rdpc.clientId", cfg.RDPC.ClientID, "client credentials authentication"))
	}
	if cfg.RDPC.PageSize <= 0 {
		add(ValidationError{Field: "rdpc.pageSize", Value: cfg.RDPC.PageSize, Message: "must be positive"})
	}
	if len(cfg.RDPC.ActiveStates) == 0 {
		add(ValidationError{Field: "rdpc.activeStates", Message: "must list at least one state"})
	}
	add(ValidateURL("weblog.url", cfg.Weblog.URL))

	if len(cfg.Kubernetes.PodPrefixes) == 0 {
		add(ValidationError{Field: "kubernetes.podPrefixes", Message: "must list at least one prefix"})
	}
	if len(cfg.Kubernetes.ConfigMapPrefixes) == 0 {
		add(ValidationError{Field: "kubernetes.configMapPrefixes", Message: "must list at least one prefix"})
	}

	seen := make(map[string]bool, len(cfg.Kubernetes.Clusters))
	for i, cluster := range cfg.Kubernetes.Clusters {
		field := fmt.Sprintf("kubernetes.clusters[%d].name", i)
		if err := ValidateRequired(field, cluster.Name, "every cluster"); err != nil {
			add(err)
			continue
		}
		if seen[cluster.Name] {
			add(ValidationError{Field: field, Value: cluster.Name, Message: fmt.Sprintf("duplicate cluster name %q", cluster.Name)})
		}
		seen[cluster.Name] = true
	}

	return errs.ErrorOrNil()
}

// RequireEndpoints checks the collaborator URLs a pass needs. Dry runs only
// read, so the notification endpoint is optional for them.
func RequireEndpoints(cfg RaccoonConfig, needWeblog bool) error {
	if err := ValidateRequired("rdpc.url", cfg.RDPC.URL, "querying active runs"); err != nil {
		return err
	}
	if needWeblog {
		if err := ValidateRequired("weblog.url", cfg.Weblog.URL, "publishing run updates"); err != nil {
			return err
		}
	}
	return nil
}
