// Package snapshot captures a document's rendered tree and mutation
// journal and stores them in S3.
package snapshot

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/recon/internal/errors"
	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/protocol"
	"github.com/vango-dev/recon/pkg/render"
)

const (
	treeObject    = "tree.html"
	journalObject = "journal.bin"
)

// Snapshot is a point-in-time copy of a document.
type Snapshot struct {
	HTML      string
	Mutations []host.Mutation
	Taken     time.Time
}

// Capture copies doc's body HTML and journal. The caller must hold
// whatever lock guards doc.
func Capture(doc *memhost.Document) *Snapshot {
	return &Snapshot{
		HTML:      render.InnerHTML(doc.Body()),
		Mutations: doc.Journal().Mutations(),
		Taken:     time.Now().UTC(),
	}
}

// Journal encodes the mutations as protocol frames.
func (s *Snapshot) Journal() ([]byte, error) {
	frames, err := protocol.EncodeMutationFrames(s.Mutations)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, f := range frames {
		if err := protocol.WriteFrame(&buf, f); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Client is the subset of the S3 API the store uses. *s3.Client
// implements it.
type Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store uploads snapshots under a bucket prefix. Each snapshot is a
// directory holding tree.html and journal.bin.
type Store struct {
	client Client
	bucket string
	prefix string
}

// NewStore creates a store. It fails with E151 when bucket is empty.
func NewStore(client Client, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, errors.New("E151")
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewClient builds an S3 client for region with credentials from the
// standard AWS_* environment variables. A non-empty endpoint selects an
// S3-compatible server with path-style addressing.
func NewClient(region, endpoint string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E150").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "env",
	}, nil
}

// Upload stores snap and returns its id.
func (s *Store) Upload(ctx context.Context, snap *Snapshot) (string, error) {
	journal, err := snap.Journal()
	if err != nil {
		return "", errors.New("E150").Wrap(err)
	}

	id := snap.Taken.Format("20060102T150405Z") + "-" + randomSuffix()
	meta := map[string]string{
		"taken":     snap.Taken.Format(time.RFC3339),
		"mutations": strconv.Itoa(len(snap.Mutations)),
	}

	objects := []struct {
		name, contentType string
		body              []byte
	}{
		{treeObject, "text/html; charset=utf-8", []byte(snap.HTML)},
		{journalObject, "application/octet-stream", journal},
	}
	for _, obj := range objects {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.key(id, obj.name)),
			Body:        bytes.NewReader(obj.body),
			ContentType: aws.String(obj.contentType),
			Metadata:    meta,
		})
		if err != nil {
			return "", errors.New("E150").WithPath(s.key(id, obj.name)).Wrap(err)
		}
	}
	return id, nil
}

// List returns the ids of stored snapshots in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E150").Wrap(err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || path.Base(*obj.Key) != treeObject {
				continue
			}
			ids = append(ids, path.Base(path.Dir(*obj.Key)))
		}
	}
	return ids, nil
}

// Fetch downloads a stored snapshot. Taken is left zero.
func (s *Store) Fetch(ctx context.Context, id string) (*Snapshot, error) {
	html, err := s.get(ctx, s.key(id, treeObject))
	if err != nil {
		return nil, err
	}
	journal, err := s.get(ctx, s.key(id, journalObject))
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{HTML: string(html)}
	r := bytes.NewReader(journal)
	for r.Len() > 0 {
		f, err := protocol.ReadFrame(r)
		if err != nil {
			return nil, errors.New("E150").WithPath(s.key(id, journalObject)).Wrap(err)
		}
		ms, err := protocol.DecodeMutations(f.Payload)
		if err != nil {
			return nil, errors.New("E150").WithPath(s.key(id, journalObject)).Wrap(err)
		}
		snap.Mutations = append(snap.Mutations, ms...)
	}
	return snap, nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E150").WithPath(key).Wrap(err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E150").WithPath(key).Wrap(err)
	}
	return data, nil
}

func (s *Store) key(id, name string) string {
	return s.prefix + id + "/" + name
}

func randomSuffix() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
