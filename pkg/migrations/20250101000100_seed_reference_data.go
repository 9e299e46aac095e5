package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type seedRow struct {
	table   string
	columns string
	values  [][]any
}

var referenceData = []seedRow{
	{"contributor_roles", "id, name", [][]any{
		{1, "Kirjoittaja"},
		{2, "Kääntäjä"},
		{3, "Toimittaja"},
		{4, "Kansikuva"},
		{5, "Kuvittaja"},
		{6, "Esiintyy"},
		{7, "Päätoimittaja"},
	}},
	{"countries", "id, name", [][]any{
		{1, "Suomi"},
		{2, "Ruotsi"},
		{3, "Yhdysvallat"},
		{4, "Iso-Britannia"},
		{5, "Neuvostoliitto"},
		{6, "Venäjä"},
		{7, "Saksa"},
		{8, "Ranska"},
		{9, "Puola"},
		{10, "Japani"},
		{11, "Kanada"},
		{12, "Australia"},
		{13, "Norja"},
		{14, "Tanska"},
		{15, "Viro"},
	}},
	{"languages", "id, name", [][]any{
		{1, "suomi"},
		{2, "englanti"},
		{3, "ruotsi"},
		{4, "venäjä"},
		{5, "saksa"},
		{6, "ranska"},
		{7, "puola"},
		{8, "japani"},
		{9, "viro"},
		{10, "norja"},
		{11, "tanska"},
	}},
	{"binding_types", "id, name", [][]any{
		{1, "Ei tietoa"},
		{2, "Nidottu"},
		{3, "Sidottu"},
		{4, "Pokkari"},
	}},
	{"formats", "id, name", [][]any{
		{1, "Paperi"},
		{2, "Äänikirja"},
		{3, "E-kirja"},
	}},
	{"work_types", "id, name", [][]any{
		{1, "Romaani"},
		{2, "Kokoelma"},
		{3, "Antologia"},
		{4, "Lasten kuvakirja"},
		{5, "Sarjakuva"},
		{6, "Tietokirja"},
		{7, "Lehti"},
	}},
	{"story_types", "id, name", [][]any{
		{1, "Novelli"},
		{2, "Pienoisromaani"},
		{3, "Runo"},
		{4, "Raapale"},
		{5, "Artikkeli"},
		{6, "Essee"},
		{7, "Esipuhe"},
		{8, "Jälkisanat"},
	}},
	{"magazine_types", "id, name", [][]any{
		{1, "Fanzine"},
		{2, "Ammattilaislehti"},
		{3, "Seuran lehti"},
	}},
	{"publication_sizes", "id, name, mm_width, mm_height", [][]any{
		{1, "A4", 210, 297},
		{2, "A5", 148, 210},
		{3, "B5", 176, 250},
		{4, "Taskukoko", 105, 148},
	}},
	{"genres", "id, name, abbr", [][]any{
		{1, "Scifi", "SF"},
		{2, "Fantasia", "F"},
		{3, "Kauhu", "K"},
		{4, "Nuorten scifi", "nSF"},
		{5, "Nuorten fantasia", "nF"},
		{6, "Nuorten kauhu", "nK"},
		{7, "Kotimainen", "kok"},
		{8, "Antologia", "eiSF"},
		{9, "Tietokirja", "tiet"},
		{10, "Lasten", "las"},
	}},
	{"tag_types", "id, name", [][]any{
		{1, "Alagenre"},
		{2, "Tyyli"},
		{3, "Aihe"},
		{4, "Paikka"},
		{5, "Aika"},
	}},
	{"book_conditions", "id, name, value", [][]any{
		{1, "Erinomainen", 5},
		{2, "Hyvä", 4},
		{3, "Kohtalainen", 3},
		{4, "Välttävä", 2},
		{5, "Huono", 1},
		{6, "Toivelista", 0},
	}},
}

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, seed := range referenceData {
				placeholders := placeholderList(len(seed.values[0]))
				query := "INSERT INTO " + seed.table + " (" + seed.columns + ") VALUES (" + placeholders + ")"
				for _, row := range seed.values {
					if _, err := tx.ExecContext(ctx, query, row...); err != nil {
						return errors.Wrapf(err, "seed %s", seed.table)
					}
				}
			}
			return nil
		})
	}

	down := func(ctx context.Context, db *bun.DB) error {
		for i := len(referenceData) - 1; i >= 0; i-- {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+referenceData[i].table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}

func placeholderList(n int) string {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}
