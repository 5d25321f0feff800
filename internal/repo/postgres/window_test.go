package postgres

import (
	"strings"
	"testing"

	"github.com/geocoder89/postboard/internal/domain/post"
	"github.com/geocoder89/postboard/internal/pagination"
	"github.com/google/uuid"
)

var testSpec = windowSpec{
	table:         "posts",
	selectCols:    "id, user_id, title, body, private",
	idCol:         "id",
	ownerCol:      "user_id",
	visibilityCol: "private",
}

func TestScopeConds(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name      string
		scope     post.Scope
		wantConds []string
		wantArgs  int
	}{
		{
			name:      "public",
			scope:     post.PublicScope(),
			wantConds: []string{"private = FALSE"},
			wantArgs:  0,
		},
		{
			name:      "private_with_owner",
			scope:     post.PrivateScope(&owner),
			wantConds: []string{"user_id = $1", "private = TRUE"},
			wantArgs:  1,
		},
		{
			name:      "private_without_owner_matches_nothing",
			scope:     post.PrivateScope(nil),
			wantConds: []string{"FALSE"},
			wantArgs:  0,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			conds, args, _ := testSpec.scopeConds(tt.scope, 1)

			if len(conds) != len(tt.wantConds) {
				t.Fatalf("got conds %v, want %v", conds, tt.wantConds)
			}

			for i := range conds {
				if conds[i] != tt.wantConds[i] {
					t.Fatalf("cond %d: got %q, want %q", i, conds[i], tt.wantConds[i])
				}
			}

			if len(args) != tt.wantArgs {
				t.Fatalf("got %d args, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestBuildWindowQuery(t *testing.T) {
	owner := uuid.New()

	t.Run("private_owner_asc", func(t *testing.T) {
		query, args := testSpec.buildWindowQuery(post.PrivateScope(&owner), pagination.Params{
			Limit:  10,
			Offset: 5,
			Order:  pagination.OrderAsc,
		})

		want := "SELECT id, user_id, title, body, private FROM posts WHERE user_id = $1 AND private = TRUE ORDER BY id ASC LIMIT $2 OFFSET $3"
		if query != want {
			t.Fatalf("got query %q, want %q", query, want)
		}

		if len(args) != 3 || args[0] != owner || args[1] != 10 || args[2] != 5 {
			t.Fatalf("unexpected args %v", args)
		}
	})

	t.Run("public_desc", func(t *testing.T) {
		query, args := testSpec.buildWindowQuery(post.PublicScope(), pagination.Params{
			Limit:  100,
			Offset: 0,
			Order:  pagination.OrderDesc,
		})

		if !strings.Contains(query, "WHERE private = FALSE") {
			t.Fatalf("public scope not applied: %q", query)
		}

		if !strings.Contains(query, "ORDER BY id DESC LIMIT $1 OFFSET $2") {
			t.Fatalf("ordering or paging wrong: %q", query)
		}

		if len(args) != 2 {
			t.Fatalf("unexpected args %v", args)
		}
	})

	t.Run("ownerless_private_selects_nothing", func(t *testing.T) {
		query, args := testSpec.buildWindowQuery(post.PrivateScope(nil), pagination.Params{Limit: 10})

		if !strings.Contains(query, "WHERE FALSE") {
			t.Fatalf("ownerless private scope must match nothing: %q", query)
		}

		// limit and offset only
		if len(args) != 2 {
			t.Fatalf("unexpected args %v", args)
		}
	})
}

func TestBuildGetQuery(t *testing.T) {
	owner := uuid.New()

	query, args := testSpec.buildGetQuery(42, post.PrivateScope(&owner))

	want := "SELECT id, user_id, title, body, private FROM posts WHERE id = $1 AND user_id = $2 AND private = TRUE"
	if query != want {
		t.Fatalf("got query %q, want %q", query, want)
	}

	if len(args) != 2 || args[0] != int64(42) || args[1] != owner {
		t.Fatalf("unexpected args %v", args)
	}
}
