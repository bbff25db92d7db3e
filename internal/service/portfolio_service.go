package service

import (
	"context"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/pdf"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Narrow views of the stores the export pipeline reads from. The concrete
// repositories and the storage service satisfy them.
type portfolioUserStore interface {
	FindByID(id uint) (*model.User, error)
}

type portfolioSubmissionStore interface {
	FindByUser(userID uint) ([]model.TaskSubmission, error)
}

type portfolioMindmapStore interface {
	FindSubmissionsByUser(userID uint) ([]model.MindmapSubmission, error)
}

type portfolioBlobStore interface {
	Read(ctx context.Context, filename string) ([]byte, error)
}

// PortfolioService runs the e-portfolio export: aggregate the learner's
// work, render the report to PDF, then append the stored attachment PDFs.
type PortfolioService struct {
	Users       portfolioUserStore
	Submissions portfolioSubmissionStore
	Mindmaps    portfolioMindmapStore
	Blobs       portfolioBlobStore
	Renderer    pdf.Renderer
	Merger      pdf.Merger
	BaseURL     string
	Timeout     time.Duration
}

func NewPortfolioService(
	users portfolioUserStore,
	submissions portfolioSubmissionStore,
	mindmaps portfolioMindmapStore,
	blobs portfolioBlobStore,
	renderer pdf.Renderer,
	merger pdf.Merger,
	baseURL string,
	timeout time.Duration,
) *PortfolioService {
	return &PortfolioService{
		Users:       users,
		Submissions: submissions,
		Mindmaps:    mindmaps,
		Blobs:       blobs,
		Renderer:    renderer,
		Merger:      merger,
		BaseURL:     baseURL,
		Timeout:     timeout,
	}
}

// AttachmentOutcome records what happened to one referenced attachment
// during the merge.
type AttachmentOutcome struct {
	Ref    string `json:"ref"`
	Source string `json:"source"`
	Merged bool   `json:"merged"`
	Reason string `json:"reason,omitempty"`
}

// ExportResult is the finished document plus the merge report.
type ExportResult struct {
	Filename    string
	PDF         []byte
	Attachments []AttachmentOutcome
}

type attachmentRef struct {
	ref    string
	source string
}

// Export builds the learner's e-portfolio. Only two things are fatal: the
// learner not existing, and the report failing to render or merge. Every
// attachment problem is logged, skipped, and reported in the outcome list so
// one corrupt upload never blocks the whole document.
func (s *PortfolioService) Export(ctx context.Context, userID uint) (*ExportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	subs, err := s.Submissions.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	mindmaps, err := s.Mindmaps.FindSubmissionsByUser(userID)
	if err != nil {
		return nil, err
	}

	report := BuildPortfolioReport(user, subs, mindmaps, s.BaseURL)
	html, err := report.RenderHTML()
	if err != nil {
		monitoring.PortfolioExportCounter.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: %v", util.ErrRenderFailed, err)
	}

	base, err := s.Renderer.Render(ctx, html)
	if err != nil {
		monitoring.PortfolioExportCounter.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: %v", util.ErrRenderFailed, err)
	}

	refs := collectAttachmentRefs(subs, mindmaps)
	docs := [][]byte{base}
	outcomes := make([]AttachmentOutcome, 0, len(refs))
	for _, ref := range refs {
		doc, err := s.fetchAttachment(ctx, ref.ref)
		if err != nil {
			logger.Log.Warn("Skipping portfolio attachment",
				zap.String("ref", ref.ref),
				zap.String("source", ref.source),
				zap.Error(err))
			monitoring.PortfolioAttachmentsSkipped.Inc()
			outcomes = append(outcomes, AttachmentOutcome{
				Ref:    ref.ref,
				Source: ref.source,
				Reason: err.Error(),
			})
			continue
		}
		docs = append(docs, doc)
		outcomes = append(outcomes, AttachmentOutcome{
			Ref:    ref.ref,
			Source: ref.source,
			Merged: true,
		})
	}

	merged, err := s.Merger.Merge(docs)
	if err != nil {
		monitoring.PortfolioExportCounter.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: merge: %v", util.ErrRenderFailed, err)
	}

	monitoring.PortfolioExportCounter.WithLabelValues("success").Inc()
	return &ExportResult{
		Filename:    fmt.Sprintf("E-Portfolio - %s.pdf", user.Name),
		PDF:         merged,
		Attachments: outcomes,
	}, nil
}

// collectAttachmentRefs lists the attachment references in merge order: per
// plain submission its feedback file, then per mindmap submission the task's
// rubric files in rubric order followed by the answer PDF.
func collectAttachmentRefs(subs []model.TaskSubmission, mindmaps []model.MindmapSubmission) []attachmentRef {
	var refs []attachmentRef
	for _, sub := range subs {
		if sub.FeedbackFile != "" {
			refs = append(refs, attachmentRef{ref: sub.FeedbackFile, source: "feedback"})
		}
	}
	for _, sub := range mindmaps {
		if sub.Task != nil {
			for _, entry := range sub.Task.Rubric {
				if entry.File != "" {
					refs = append(refs, attachmentRef{ref: entry.File, source: "rubric"})
				}
			}
		}
		if sub.AnswerPDF != "" {
			refs = append(refs, attachmentRef{ref: sub.AnswerPDF, source: "answer"})
		}
	}
	return refs
}

// fetchAttachment resolves a stored reference to its blob key, reads the
// blob, and checks it is a PDF the merger can consume.
func (s *PortfolioService) fetchAttachment(ctx context.Context, ref string) ([]byte, error) {
	key, err := util.BlobKeyFromURL(ref)
	if err != nil {
		return nil, err
	}
	doc, err := s.Blobs.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.Merger.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
