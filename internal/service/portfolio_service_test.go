package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	user *model.User
	err  error
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	return f.user, f.err
}

type fakeSubmissionStore struct {
	subs []model.TaskSubmission
}

func (f *fakeSubmissionStore) FindByUser(userID uint) ([]model.TaskSubmission, error) {
	return f.subs, nil
}

type fakeMindmapStore struct {
	subs []model.MindmapSubmission
}

func (f *fakeMindmapStore) FindSubmissionsByUser(userID uint) ([]model.MindmapSubmission, error) {
	return f.subs, nil
}

type fakeBlobStore struct {
	blobs map[string][]byte
}

func (f *fakeBlobStore) Read(ctx context.Context, filename string) ([]byte, error) {
	doc, ok := f.blobs[filename]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", filename)
	}
	return doc, nil
}

type fakeRenderer struct {
	out []byte
	err error
}

func (f *fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	return f.out, f.err
}

type fakeMerger struct {
	invalid map[string]bool
	merged  [][]byte
	err     error
}

func (f *fakeMerger) Validate(doc []byte) error {
	if f.invalid[string(doc)] {
		return errors.New("not a pdf")
	}
	return nil
}

func (f *fakeMerger) Merge(docs [][]byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.merged = docs
	var out []byte
	for _, d := range docs {
		out = append(out, d...)
	}
	return out, nil
}

func newExportService(users *fakeUserStore, subs *fakeSubmissionStore, mindmaps *fakeMindmapStore, blobs *fakeBlobStore, renderer *fakeRenderer, merger *fakeMerger) *PortfolioService {
	logger.Log = zap.NewNop()
	return NewPortfolioService(users, subs, mindmaps, blobs, renderer, merger, "http://localhost:8080", 5*time.Second)
}

func TestExportUserNotFound(t *testing.T) {
	svc := newExportService(
		&fakeUserStore{err: gorm.ErrRecordNotFound},
		&fakeSubmissionStore{}, &fakeMindmapStore{}, &fakeBlobStore{},
		&fakeRenderer{out: []byte("base")}, &fakeMerger{},
	)

	_, err := svc.Export(context.Background(), 99)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestExportRendererFailureIsFatal(t *testing.T) {
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice"}},
		&fakeSubmissionStore{}, &fakeMindmapStore{}, &fakeBlobStore{},
		&fakeRenderer{err: errors.New("chrome crashed")}, &fakeMerger{},
	)

	_, err := svc.Export(context.Background(), 1)
	assert.ErrorIs(t, err, util.ErrRenderFailed)
}

func TestExportMergeFailureIsFatal(t *testing.T) {
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice"}},
		&fakeSubmissionStore{}, &fakeMindmapStore{}, &fakeBlobStore{},
		&fakeRenderer{out: []byte("base")}, &fakeMerger{err: errors.New("corrupt xref")},
	)

	_, err := svc.Export(context.Background(), 1)
	assert.ErrorIs(t, err, util.ErrRenderFailed)
}

func TestExportFilenameUsesLearnerName(t *testing.T) {
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice Johnson"}},
		&fakeSubmissionStore{}, &fakeMindmapStore{}, &fakeBlobStore{},
		&fakeRenderer{out: []byte("base")}, &fakeMerger{},
	)

	result, err := svc.Export(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "E-Portfolio - Alice Johnson.pdf", result.Filename)
	assert.Equal(t, []byte("base"), result.PDF)
	assert.Empty(t, result.Attachments)
}

func TestExportMergesAttachmentsInOrder(t *testing.T) {
	merger := &fakeMerger{}
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice"}},
		&fakeSubmissionStore{subs: []model.TaskSubmission{
			{FeedbackFile: "http://localhost:8080/uploads/fb1.pdf"},
			{FeedbackFile: ""},
			{FeedbackFile: "http://localhost:8080/uploads/fb2.pdf"},
		}},
		&fakeMindmapStore{subs: []model.MindmapSubmission{
			{
				Task: &model.MindmapTask{Rubric: []model.RubricEntry{
					{Text: "clarity", File: "http://localhost:8080/uploads/rubric1.pdf"},
					{Text: "no file"},
				}},
				AnswerPDF: "http://localhost:8080/uploads/answer1.pdf",
			},
		}},
		&fakeBlobStore{blobs: map[string][]byte{
			"fb1.pdf":     []byte("FB1"),
			"fb2.pdf":     []byte("FB2"),
			"rubric1.pdf": []byte("RUB1"),
			"answer1.pdf": []byte("ANS1"),
		}},
		&fakeRenderer{out: []byte("BASE")},
		merger,
	)

	result, err := svc.Export(context.Background(), 1)
	require.NoError(t, err)

	// Base document first, then feedback files, then rubric and answer PDFs.
	assert.Equal(t, [][]byte{
		[]byte("BASE"), []byte("FB1"), []byte("FB2"), []byte("RUB1"), []byte("ANS1"),
	}, merger.merged)

	require.Len(t, result.Attachments, 4)
	for _, o := range result.Attachments {
		assert.True(t, o.Merged, o.Ref)
	}
	assert.Equal(t, "feedback", result.Attachments[0].Source)
	assert.Equal(t, "feedback", result.Attachments[1].Source)
	assert.Equal(t, "rubric", result.Attachments[2].Source)
	assert.Equal(t, "answer", result.Attachments[3].Source)
}

func TestExportSkipsMissingBlob(t *testing.T) {
	merger := &fakeMerger{}
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice"}},
		&fakeSubmissionStore{subs: []model.TaskSubmission{
			{FeedbackFile: "http://localhost:8080/uploads/gone.pdf"},
			{FeedbackFile: "http://localhost:8080/uploads/ok.pdf"},
		}},
		&fakeMindmapStore{},
		&fakeBlobStore{blobs: map[string][]byte{"ok.pdf": []byte("OK")}},
		&fakeRenderer{out: []byte("BASE")},
		merger,
	)

	result, err := svc.Export(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{[]byte("BASE"), []byte("OK")}, merger.merged)
	require.Len(t, result.Attachments, 2)
	assert.False(t, result.Attachments[0].Merged)
	assert.NotEmpty(t, result.Attachments[0].Reason)
	assert.True(t, result.Attachments[1].Merged)
}

func TestExportSkipsInvalidPDF(t *testing.T) {
	merger := &fakeMerger{invalid: map[string]bool{"NOT A PDF": true}}
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice"}},
		&fakeSubmissionStore{subs: []model.TaskSubmission{
			{FeedbackFile: "http://localhost:8080/uploads/bad.pdf"},
		}},
		&fakeMindmapStore{},
		&fakeBlobStore{blobs: map[string][]byte{"bad.pdf": []byte("NOT A PDF")}},
		&fakeRenderer{out: []byte("BASE")},
		merger,
	)

	result, err := svc.Export(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, [][]byte{[]byte("BASE")}, merger.merged)
	require.Len(t, result.Attachments, 1)
	assert.False(t, result.Attachments[0].Merged)
}

func TestExportSkipsUnresolvableRef(t *testing.T) {
	merger := &fakeMerger{}
	svc := newExportService(
		&fakeUserStore{user: &model.User{Name: "Alice"}},
		&fakeSubmissionStore{subs: []model.TaskSubmission{
			{FeedbackFile: "http://localhost:8080/"},
		}},
		&fakeMindmapStore{},
		&fakeBlobStore{blobs: map[string][]byte{}},
		&fakeRenderer{out: []byte("BASE")},
		merger,
	)

	result, err := svc.Export(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, result.Attachments, 1)
	assert.False(t, result.Attachments[0].Merged)
}
