// Package changes keeps the append-only audit log. Every mutation writes its
// rows through this package inside the mutation's own transaction.
package changes

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/suomisf/suomisf/pkg/auth"
	"github.com/suomisf/suomisf/pkg/models"
	"github.com/uptrace/bun"
)

// Table labels stored in logs.table_name.
const (
	TableWork       = "Teos"
	TableEdition    = "Painos"
	TableShort      = "Novelli"
	TablePerson     = "Henkilö"
	TablePublisher  = "Kustantaja"
	TablePubseries  = "Kustantajan sarja"
	TableBookseries = "Kirjasarja"
	TableMagazine   = "Lehti"
	TableIssue      = "Irtonumero"
	TableArticle    = "Artikkeli"
	TableAward      = "Palkinto"
	TableTag        = "Asiasana"
)

var now = func() time.Time { return time.Now().UTC() }

func insert(ctx context.Context, db bun.IDB, rows []*models.Log) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&rows).Exec(ctx)
	return errors.WithStack(err)
}

func newRow(ctx context.Context, table string, id int, object, action string) *models.Log {
	return &models.Log{
		TableName:  table,
		TableID:    id,
		ObjectName: object,
		Action:     action,
		UserID:     auth.UserIDFromContext(ctx),
		Date:       now(),
	}
}

// LogCreate records the creation of an object.
func LogCreate(ctx context.Context, db bun.IDB, table string, id int, object string) error {
	return insert(ctx, db, []*models.Log{newRow(ctx, table, id, object, models.LogActionCreate)})
}

// LogDelete records the removal of an object.
func LogDelete(ctx context.Context, db bun.IDB, table string, id int, object string) error {
	return insert(ctx, db, []*models.Log{newRow(ctx, table, id, object, models.LogActionDelete)})
}

// LogUpdate writes one row per changed field of tr. Nothing is written when
// tr recorded no change.
func LogUpdate(ctx context.Context, db bun.IDB, table string, id int, object string, tr *Tracker) error {
	if tr == nil || !tr.Changed() {
		return nil
	}
	rows := make([]*models.Log, 0, len(tr.changes))
	for _, ch := range tr.changes {
		row := newRow(ctx, table, id, object, models.LogActionUpdate)
		label := ch.label
		row.FieldName = &label
		row.OldValue = ch.old
		rows = append(rows, row)
	}
	return insert(ctx, db, rows)
}
