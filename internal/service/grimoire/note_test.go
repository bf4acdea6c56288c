package grimoire

import (
	"context"
	"errors"
	"strings"
	"testing"

	"grimoires/internal/domain"
	grimoireSvc "grimoires/internal/domain/services/grimoire"
)

func TestPutNote(t *testing.T) {
	f := newFixture()
	svc := NewNoteService(f.notes, f.authorizer, testLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		nodeID  string
		req     grimoireSvc.PutNoteRequest
		wantErr error
	}{
		{"valid", "n1", grimoireSvc.PutNoteRequest{FileType: " lieu ", Data: "texte"}, nil},
		{"img too long", "n1", grimoireSvc.PutNoteRequest{Img: strings.Repeat("i", 41)}, domain.ErrValidation},
		{"data too large", "n1", grimoireSvc.PutNoteRequest{Data: strings.Repeat("d", 1<<20+1)}, domain.ErrValidation},
		{"missing node", " ", grimoireSvc.PutNoteRequest{Data: "x"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			note, err := svc.PutNote(ctx, guestID, f.gameID, tt.nodeID, &req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PutNote() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PutNote() error = %v", err)
			}
			if note.FileType != "lieu" || note.ID == 0 {
				t.Errorf("note = %+v", note)
			}
		})
	}
}

func TestListAndDeleteNotes(t *testing.T) {
	f := newFixture()
	svc := NewNoteService(f.notes, f.authorizer, testLogger())
	ctx := context.Background()

	f.notes.put(f.gameID, "a", "profil", "{}")
	f.notes.put(f.gameID, "b", "peuple", "{}")
	f.notes.put(f.gameID, "c", "lieu", "")

	all, err := svc.ListNotes(ctx, ownerID, f.gameID, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListNotes(all) = %d, %v", len(all), err)
	}
	some, err := svc.ListNotes(ctx, ownerID, f.gameID, []string{"profil", " peuple ", ""})
	if err != nil || len(some) != 2 {
		t.Fatalf("ListNotes(filtered) = %d, %v", len(some), err)
	}

	if err := svc.DeleteNote(ctx, ownerID, f.gameID, "a"); err != nil {
		t.Fatalf("DeleteNote() error = %v", err)
	}
	if _, err := svc.GetNote(ctx, ownerID, f.gameID, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetNote() after delete error = %v, want ErrNotFound", err)
	}

	empty, err := svc.ListNotes(ctx, ownerID, f.gameID, []string{"Arme"})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListNotes(no match) = %#v, %v, want empty slice", empty, err)
	}
}
