package cases

import (
	"context"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"edulegal/internal/domain"
	"edulegal/internal/pkg/validate"
)

func (s *service) ListNotes(ctx context.Context, actor *domain.User, caseID uuid.UUID) ([]domain.CaseNote, error) {
	if _, err := s.loadVisible(ctx, actor, caseID); err != nil {
		return nil, err
	}
	return s.noteRepo.ListByCase(ctx, caseID)
}

func (s *service) AddNote(ctx context.Context, actor *domain.User, caseID uuid.UUID, input domain.CreateNoteInput) (*domain.CaseNote, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if _, err := s.loadVisible(ctx, actor, caseID); err != nil {
		return nil, err
	}

	note := &domain.CaseNote{
		ID:           uuid.New(),
		CaseID:       caseID,
		AuthorID:     actor.ID,
		Note:         input.Note,
		Confidential: true,
		Author:       actor.Ref(),
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, goerr.Wrap(err, "failed to create note", goerr.V("case_id", caseID))
	}

	actorID := actor.ID
	s.activitySvc.Record(ctx, domain.CreateActivityInput{
		CaseID:   caseID,
		UserID:   &actorID,
		Action:   domain.ActivityNoteAdded,
		Details:  "Note added",
		Metadata: map[string]string{"noteId": note.ID.String()},
	})

	return note, nil
}

func (s *service) UpdateNote(ctx context.Context, actor *domain.User, caseID, noteID uuid.UUID, input domain.UpdateNoteInput) (*domain.CaseNote, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	note, err := s.loadNote(ctx, caseID, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	note.Note = input.Note
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, goerr.Wrap(err, "failed to update note", goerr.V("note_id", noteID))
	}

	return note, nil
}

func (s *service) DeleteNote(ctx context.Context, actor *domain.User, caseID, noteID uuid.UUID) error {
	note, err := s.loadNote(ctx, caseID, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return goerr.Wrap(err, "failed to delete note", goerr.V("note_id", noteID))
	}

	actorID := actor.ID
	s.activitySvc.Record(ctx, domain.CreateActivityInput{
		CaseID:   caseID,
		UserID:   &actorID,
		Action:   domain.ActivityUpdated,
		Details:  "Note removed",
		Metadata: map[string]string{"noteId": noteID.String()},
	})

	return nil
}

func (s *service) ListDocuments(ctx context.Context, actor *domain.User, caseID uuid.UUID) ([]domain.CaseDocument, error) {
	if _, err := s.loadVisible(ctx, actor, caseID); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByCase(ctx, caseID)
}

func (s *service) UploadDocument(ctx context.Context, actor *domain.User, caseID uuid.UUID, fh *multipart.FileHeader) (*domain.CaseDocument, error) {
	if _, err := s.loadVisible(ctx, actor, caseID); err != nil {
		return nil, err
	}

	stored, err := s.storageSvc.SaveUpload(ctx, "cases/"+caseID.String(), fh)
	if err != nil {
		return nil, err
	}

	doc := &domain.CaseDocument{
		ID:           uuid.New(),
		CaseID:       caseID,
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		FilePath:     stored.Path,
		FileType:     stored.ContentType,
		FileSize:     stored.Size,
		UploadedByID: actor.ID,
		UploadedBy:   actor.Ref(),
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		_ = s.storageSvc.Remove(ctx, stored.Path)
		return nil, goerr.Wrap(err, "failed to save document", goerr.V("case_id", caseID))
	}

	actorID := actor.ID
	s.activitySvc.Record(ctx, domain.CreateActivityInput{
		CaseID:   caseID,
		UserID:   &actorID,
		Action:   domain.ActivityDocumentUploaded,
		Details:  "Document uploaded: " + doc.OriginalName,
		Metadata: map[string]string{"documentId": doc.ID.String(), "filename": doc.OriginalName},
	})

	return doc, nil
}

func (s *service) DeleteDocument(ctx context.Context, actor *domain.User, caseID, documentID uuid.UUID) error {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return goerr.Wrap(err, "failed to load document", goerr.V("document_id", documentID))
	}
	if doc == nil || doc.CaseID != caseID {
		return domain.ErrDocumentNotFound
	}
	if doc.UploadedByID != actor.ID && actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("document_id", documentID))
	}
	if err := s.storageSvc.Remove(ctx, doc.FilePath); err != nil {
		slog.Warn("failed to remove document file", "document_id", documentID, "path", doc.FilePath, "error", err)
	}

	actorID := actor.ID
	s.activitySvc.Record(ctx, domain.CreateActivityInput{
		CaseID:   caseID,
		UserID:   &actorID,
		Action:   domain.ActivityDocumentDeleted,
		Details:  "Document deleted: " + doc.OriginalName,
		Metadata: map[string]string{"documentId": documentID.String(), "filename": doc.OriginalName},
	})

	return nil
}

func (s *service) Timeline(ctx context.Context, actor *domain.User, caseID uuid.UUID) ([]domain.CaseActivity, error) {
	if _, err := s.loadVisible(ctx, actor, caseID); err != nil {
		return nil, err
	}
	return s.activitySvc.Timeline(ctx, caseID)
}

// loadVisible resolves the parent case and applies the same officer scope as
// GetByID.
func (s *service) loadVisible(ctx context.Context, actor *domain.User, caseID uuid.UUID) (*domain.Case, error) {
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *service) loadNote(ctx context.Context, caseID, noteID uuid.UUID) (*domain.CaseNote, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load note", goerr.V("note_id", noteID))
	}
	if note == nil || note.CaseID != caseID {
		return nil, domain.ErrNoteNotFound
	}
	return note, nil
}
