package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AnTengye/mediconnect/config"
	"github.com/AnTengye/mediconnect/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

// CatalogSource supplies the provider records for a catalog refresh
type CatalogSource interface {
	Name() string
	Load(ctx context.Context) ([]model.Provider, error)
}

// NewCatalogSource builds the source selected by cfg.Catalog.Source
func NewCatalogSource(cfg *config.Config, upstream *UpstreamClient) (CatalogSource, error) {
	switch cfg.Catalog.Source {
	case config.SourceStatic:
		return StaticSource{}, nil
	case config.SourceFile:
		return FileSource{Path: cfg.Catalog.Path}, nil
	case config.SourceMinio:
		return NewMinioSource(&cfg.Minio, cfg.Catalog.Object)
	case config.SourceUpstream:
		if upstream == nil {
			upstream = NewUpstreamClient(&cfg.Upstream)
		}
		return UpstreamSource{Client: upstream}, nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
}

// StaticSource serves the built-in demo roster
type StaticSource struct{}

func (StaticSource) Name() string { return config.SourceStatic }

func (StaticSource) Load(context.Context) ([]model.Provider, error) {
	return DemoProviders(), nil
}

// DemoProviders returns the roster used when no real catalog is configured
func DemoProviders() []model.Provider {
	return []model.Provider{
		demoProvider("1", "Sarah", "Johnson", "sarah.johnson@medical.com", model.SpecCardiologist,
			"Downtown Medical Center", "Experienced cardiologist with expertise in interventional cardiology.",
			200, true, "2023-01-15T10:30:00", "2023-08-20T14:45:00"),
		demoProvider("2", "Michael", "Chen", "michael.chen@clinic.com", model.SpecDermatologist,
			"Westside Clinic", "Board-certified dermatologist specializing in skin cancer screening.",
			180, true, "2023-02-10T09:15:00", "2023-08-18T11:20:00"),
		demoProvider("3", "Emily", "Rodriguez", "emily.rodriguez@hospital.com", model.SpecPediatrician,
			"Children's Health Center", "Dedicated pediatrician focused on child development.",
			150, true, "2023-03-05T14:20:00", "2023-08-22T16:30:00"),
		demoProvider("4", "James", "Wilson", "james.wilson@sports.com", model.SpecOrthopedicSurgeon,
			"Sports Medicine Institute", "Orthopedic surgeon with specialization in sports injuries.",
			250, true, "2023-01-28T11:45:00", "2023-08-19T09:10:00"),
		demoProvider("5", "Lisa", "Anderson", "lisa.anderson@mental.com", model.SpecPsychiatrist,
			"Mental Health Center", "Compassionate psychiatrist specializing in anxiety and depression.",
			220, true, "2023-04-17T13:25:00", "2023-08-21T15:40:00"),
		demoProvider("6", "Robert", "Kim", "robert.kim@neuro.com", model.SpecNeurologist,
			"Brain & Spine Center", "Neurologist with expertise in stroke care and epilepsy management.",
			240, false, "2023-05-22T16:50:00", "2023-08-23T10:15:00"),
	}
}

func demoProvider(id, first, last, email, spec, location, bio string, rate float64, approved bool, created, updated string) model.Provider {
	return model.Provider{
		ID:             id,
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Specialization: spec,
		Bio:            bio,
		Location:       location,
		Rate:           model.NewRate(rate),
		Approved:       approved,
		CreatedAt:      parseUpstreamTime(created),
		UpdatedAt:      parseUpstreamTime(updated),
	}
}

// FileSource reads a YAML (or JSON) roster from disk
type FileSource struct {
	Path string
}

func (FileSource) Name() string { return config.SourceFile }

func (s FileSource) Load(context.Context) ([]model.Provider, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return decodeRoster(data)
}

// rosterFile is the mapping form of a roster document. Doctors is nil when
// the key is missing.
type rosterFile struct {
	Doctors *[]model.Provider `yaml:"doctors"`
}

// decodeRoster accepts either a bare list of providers or {doctors: [...]}.
// JSON documents decode too, being valid YAML. A mapping without a doctors
// list is an error, not an empty roster.
func decodeRoster(data []byte) ([]model.Provider, error) {
	var list []model.Provider
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if f.Doctors == nil {
		return nil, errors.New("failed to parse roster: no doctors list")
	}
	return *f.Doctors, nil
}

// MinioSource reads the roster from one object in a MinIO bucket
type MinioSource struct {
	client *minio.Client
	bucket string
	object string
	config *config.MinioConfig
}

func NewMinioSource(cfg *config.MinioConfig, object string) (*MinioSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioSource{
		client: client,
		bucket: cfg.Bucket,
		object: object,
		config: cfg,
	}, nil
}

func (s *MinioSource) Name() string { return config.SourceMinio }

func (s *MinioSource) Load(ctx context.Context) ([]model.Provider, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get roster object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster object: %w", err)
	}
	return decodeRoster(data)
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioSource) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Publish writes providers to the roster object as YAML
func (s *MinioSource) Publish(ctx context.Context, providers []model.Provider) error {
	data, err := yaml.Marshal(rosterFile{Doctors: &providers})
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to upload roster: %w", err)
	}

	return nil
}

// ObjectURL returns the plain URL of the roster object (if bucket policy allows)
func (s *MinioSource) ObjectURL() string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, s.object)
}

// UpstreamSource lists doctors from the account API
type UpstreamSource struct {
	Client *UpstreamClient
}

func (UpstreamSource) Name() string { return config.SourceUpstream }

func (s UpstreamSource) Load(ctx context.Context) ([]model.Provider, error) {
	return s.Client.ListDoctors(ctx)
}
