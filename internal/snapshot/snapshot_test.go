package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/recon/internal/errors"
	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut {
		return nil, stderrors.New("access denied")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, stderrors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket := aws.ToString(in.Bucket) + "/"
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, bucket+aws.ToString(in.Prefix)) {
			keys = append(keys, strings.TrimPrefix(k, bucket))
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func sampleDoc() *memhost.Document {
	doc := memhost.NewDocument()
	p := doc.CreateElement("p")
	doc.SetAttribute(p, "id", "x")
	doc.AppendChild(p, doc.CreateText("hello"))
	doc.AppendChild(doc.Body(), p)
	return doc
}

func TestCapture(t *testing.T) {
	snap := Capture(sampleDoc())
	if snap.HTML != `<p id="x">hello</p>` {
		t.Errorf("HTML = %s", snap.HTML)
	}
	if len(snap.Mutations) != 5 {
		t.Errorf("Mutations = %d, want 5", len(snap.Mutations))
	}
	if snap.Taken.IsZero() {
		t.Error("Taken not set")
	}
}

func TestNewStoreRequiresBucket(t *testing.T) {
	if _, err := NewStore(newFakeS3(), "", "x/"); errors.CodeOf(err) != "E151" {
		t.Errorf("err = %v, want E151", err)
	}
	s, err := NewStore(newFakeS3(), "b", "snaps")
	if err != nil {
		t.Fatal(err)
	}
	if s.prefix != "snaps/" {
		t.Errorf("prefix = %q, want trailing slash", s.prefix)
	}
}

func TestUploadListFetch(t *testing.T) {
	client := newFakeS3()
	store, err := NewStore(client, "bucket", "recon/")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	snap := Capture(sampleDoc())

	id, err := store.Upload(ctx, snap)
	if err != nil {
		t.Fatal(err)
	}
	if got := client.types["bucket/recon/"+id+"/tree.html"]; !strings.HasPrefix(got, "text/html") {
		t.Errorf("tree content type = %q", got)
	}
	if len(client.objects) != 2 {
		t.Errorf("stored %d objects, want 2", len(client.objects))
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("List = %v, want [%s]", ids, id)
	}

	got, err := store.Fetch(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.HTML != snap.HTML {
		t.Errorf("HTML = %s, want %s", got.HTML, snap.HTML)
	}
	if len(got.Mutations) != len(snap.Mutations) {
		t.Fatalf("Mutations = %d, want %d", len(got.Mutations), len(snap.Mutations))
	}
	for i := range got.Mutations {
		if got.Mutations[i] != snap.Mutations[i] {
			t.Errorf("mutation %d = %+v, want %+v", i, got.Mutations[i], snap.Mutations[i])
		}
	}
}

func TestUploadFailure(t *testing.T) {
	client := newFakeS3()
	client.failPut = true
	store, _ := NewStore(client, "bucket", "")

	_, err := store.Upload(context.Background(), &Snapshot{HTML: "<p></p>"})
	if errors.CodeOf(err) != "E150" {
		t.Errorf("err = %v, want E150", err)
	}
}

func TestFetchMissing(t *testing.T) {
	store, _ := NewStore(newFakeS3(), "bucket", "")
	if _, err := store.Fetch(context.Background(), "nope"); errors.CodeOf(err) != "E150" {
		t.Errorf("err = %v, want E150", err)
	}
}

func TestEmptyJournalRoundTrip(t *testing.T) {
	data, err := (&Snapshot{Mutations: []host.Mutation{}}).Journal()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("an empty journal still encodes one frame")
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); errors.CodeOf(err) != "E150" {
		t.Errorf("err = %v, want E150", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "AKID" || creds.Source != "env" {
		t.Errorf("creds = %+v", creds)
	}
}
