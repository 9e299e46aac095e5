package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var catalogTables = []string{
	// Reference data
	`CREATE TABLE countries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE binding_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE formats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE work_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE story_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE magazine_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE publication_sizes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		mm_width INTEGER,
		mm_height INTEGER
	)`,
	`CREATE TABLE tag_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		abbr TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE book_conditions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		value INTEGER NOT NULL
	)`,
	`CREATE TABLE contributor_roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,

	// Users
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		language INTEGER REFERENCES languages(id)
	)`,

	// Publishing
	`CREATE TABLE publishers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		fullname TEXT NOT NULL,
		description TEXT,
		image_src TEXT,
		image_attr TEXT
	)`,
	`CREATE TABLE publisher_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		publisher_id INTEGER NOT NULL REFERENCES publishers(id),
		link TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE pubseries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		publisher_id INTEGER NOT NULL REFERENCES publishers(id),
		important BOOLEAN NOT NULL DEFAULT FALSE,
		image_src TEXT,
		image_attr TEXT
	)`,
	`CREATE TABLE bookseries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		orig_name TEXT,
		important BOOLEAN NOT NULL DEFAULT FALSE,
		image_src TEXT,
		image_attr TEXT
	)`,

	// People
	`CREATE TABLE persons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		alt_name TEXT,
		fullname TEXT,
		other_names TEXT,
		first_name TEXT,
		last_name TEXT,
		image_src TEXT,
		image_attr TEXT,
		dob INTEGER,
		dod INTEGER,
		bio TEXT,
		bio_src TEXT,
		nationality_id INTEGER REFERENCES countries(id),
		imported_string TEXT
	)`,
	`CREATE TABLE aliases (
		alias INTEGER NOT NULL REFERENCES persons(id),
		realname INTEGER NOT NULL REFERENCES persons(id),
		PRIMARY KEY (alias, realname)
	)`,
	`CREATE TABLE person_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES persons(id),
		link TEXT NOT NULL,
		description TEXT
	)`,

	// Works, editions and stories
	`CREATE TABLE works (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		subtitle TEXT,
		orig_title TEXT,
		pubyear INTEGER,
		language INTEGER REFERENCES languages(id),
		bookseries_id INTEGER REFERENCES bookseries(id),
		bookseriesnum TEXT,
		bookseriesorder INTEGER,
		type INTEGER REFERENCES work_types(id),
		misc TEXT,
		description TEXT,
		descr_attr TEXT,
		imported_string TEXT,
		author_str TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE work_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		work_id INTEGER NOT NULL REFERENCES works(id),
		link TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE work_genres (
		work_id INTEGER NOT NULL REFERENCES works(id),
		genre_id INTEGER NOT NULL REFERENCES genres(id),
		PRIMARY KEY (work_id, genre_id)
	)`,
	`CREATE TABLE editions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		subtitle TEXT,
		pubyear INTEGER,
		publisher_id INTEGER REFERENCES publishers(id),
		editionnum INTEGER,
		version INTEGER,
		isbn TEXT,
		printedin TEXT,
		pubseries_id INTEGER REFERENCES pubseries(id),
		pubseriesnum INTEGER,
		coll_info TEXT,
		pages INTEGER,
		binding_id INTEGER REFERENCES binding_types(id),
		format_id INTEGER REFERENCES formats(id),
		size INTEGER,
		dustcover INTEGER NOT NULL DEFAULT 1,
		coverimage INTEGER NOT NULL DEFAULT 1,
		misc TEXT,
		imported_string TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE edition_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		edition_id INTEGER NOT NULL REFERENCES editions(id),
		image_src TEXT NOT NULL,
		image_attr TEXT
	)`,
	`CREATE TABLE edition_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		edition_id INTEGER NOT NULL REFERENCES editions(id),
		link TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE shortstories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		orig_title TEXT,
		language INTEGER REFERENCES languages(id),
		pubyear INTEGER,
		story_type INTEGER REFERENCES story_types(id),
		author_str TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE story_genres (
		shortstory_id INTEGER NOT NULL REFERENCES shortstories(id),
		genre_id INTEGER NOT NULL REFERENCES genres(id),
		PRIMARY KEY (shortstory_id, genre_id)
	)`,
	`CREATE TABLE parts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		edition_id INTEGER REFERENCES editions(id),
		work_id INTEGER REFERENCES works(id),
		shortstory_id INTEGER REFERENCES shortstories(id),
		order_num INTEGER,
		title TEXT,
		CONSTRAINT parts_target CHECK (work_id IS NOT NULL OR shortstory_id IS NOT NULL)
	)`,
	`CREATE TABLE contributors (
		part_id INTEGER NOT NULL REFERENCES parts(id),
		person_id INTEGER NOT NULL REFERENCES persons(id),
		role_id INTEGER NOT NULL REFERENCES contributor_roles(id),
		real_person_id INTEGER REFERENCES persons(id),
		description TEXT,
		PRIMARY KEY (part_id, person_id, role_id)
	)`,

	// Tags
	`CREATE TABLE tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		type_id INTEGER REFERENCES tag_types(id)
	)`,
	`CREATE TABLE work_tags (
		work_id INTEGER NOT NULL REFERENCES works(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (work_id, tag_id)
	)`,
	`CREATE TABLE story_tags (
		shortstory_id INTEGER NOT NULL REFERENCES shortstories(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (shortstory_id, tag_id)
	)`,
	`CREATE TABLE person_tags (
		person_id INTEGER NOT NULL REFERENCES persons(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (person_id, tag_id)
	)`,

	// Magazines
	`CREATE TABLE magazines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		publisher_id INTEGER REFERENCES publishers(id),
		description TEXT,
		link TEXT,
		issn TEXT,
		type_id INTEGER REFERENCES magazine_types(id)
	)`,
	`CREATE TABLE issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		magazine_id INTEGER NOT NULL REFERENCES magazines(id),
		number INTEGER,
		number_extra TEXT,
		count INTEGER,
		year INTEGER,
		cover_number TEXT,
		image_src TEXT,
		image_attr TEXT,
		pages INTEGER,
		size_id INTEGER REFERENCES publication_sizes(id),
		link TEXT,
		notes TEXT,
		title TEXT
	)`,
	`CREATE TABLE issue_editors (
		issue_id INTEGER NOT NULL REFERENCES issues(id),
		person_id INTEGER NOT NULL REFERENCES persons(id),
		role_id INTEGER NOT NULL REFERENCES contributor_roles(id),
		PRIMARY KEY (issue_id, person_id, role_id)
	)`,
	`CREATE TABLE issue_tags (
		issue_id INTEGER NOT NULL REFERENCES issues(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (issue_id, tag_id)
	)`,
	`CREATE TABLE articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		person TEXT,
		excerpt TEXT
	)`,
	`CREATE TABLE article_authors (
		article_id INTEGER NOT NULL REFERENCES articles(id),
		person_id INTEGER NOT NULL REFERENCES persons(id),
		PRIMARY KEY (article_id, person_id)
	)`,
	`CREATE TABLE article_persons (
		article_id INTEGER NOT NULL REFERENCES articles(id),
		person_id INTEGER NOT NULL REFERENCES persons(id),
		PRIMARY KEY (article_id, person_id)
	)`,
	`CREATE TABLE article_tags (
		article_id INTEGER NOT NULL REFERENCES articles(id),
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (article_id, tag_id)
	)`,
	`CREATE TABLE issue_contents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issue_id INTEGER NOT NULL REFERENCES issues(id),
		article_id INTEGER REFERENCES articles(id),
		shortstory_id INTEGER REFERENCES shortstories(id),
		CONSTRAINT issue_contents_target CHECK (
			(article_id IS NOT NULL) + (shortstory_id IS NOT NULL) = 1
		)
	)`,

	// Awards
	`CREATE TABLE awards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		domestic BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE award_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type INTEGER NOT NULL
	)`,
	`CREATE TABLE award_category_awards (
		award_id INTEGER NOT NULL REFERENCES awards(id),
		category_id INTEGER NOT NULL REFERENCES award_categories(id),
		PRIMARY KEY (award_id, category_id)
	)`,
	`CREATE TABLE awarded (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER,
		award_id INTEGER NOT NULL REFERENCES awards(id),
		category_id INTEGER NOT NULL REFERENCES award_categories(id),
		person_id INTEGER REFERENCES persons(id),
		work_id INTEGER REFERENCES works(id),
		story_id INTEGER REFERENCES shortstories(id),
		CONSTRAINT awarded_target CHECK (
			(person_id IS NOT NULL) + (work_id IS NOT NULL) + (story_id IS NOT NULL) = 1
		)
	)`,

	// Collections
	`CREATE TABLE user_books (
		user_id INTEGER NOT NULL REFERENCES users(id),
		edition_id INTEGER NOT NULL REFERENCES editions(id),
		condition_id INTEGER REFERENCES book_conditions(id),
		description TEXT,
		price INTEGER,
		added TIMESTAMP,
		PRIMARY KEY (user_id, edition_id)
	)`,
	`CREATE TABLE user_pubseries (
		user_id INTEGER NOT NULL REFERENCES users(id),
		series_id INTEGER NOT NULL REFERENCES pubseries(id),
		PRIMARY KEY (user_id, series_id)
	)`,
	`CREATE TABLE user_bookseries (
		user_id INTEGER NOT NULL REFERENCES users(id),
		series_id INTEGER NOT NULL REFERENCES bookseries(id),
		PRIMARY KEY (user_id, series_id)
	)`,

	// Audit log
	`CREATE TABLE logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		table_name TEXT NOT NULL,
		field_name TEXT,
		table_id INTEGER NOT NULL,
		object_name TEXT NOT NULL,
		action TEXT NOT NULL,
		user_id INTEGER REFERENCES users(id),
		old_value TEXT,
		date TIMESTAMP NOT NULL
	)`,
}

var catalogIndexes = []string{
	`CREATE INDEX ix_works_title ON works(title)`,
	`CREATE INDEX ix_works_author_str ON works(author_str)`,
	`CREATE INDEX ix_works_bookseries ON works(bookseries_id, bookseriesorder)`,
	`CREATE INDEX ix_editions_title ON editions(title)`,
	`CREATE INDEX ix_editions_pubyear ON editions(pubyear)`,
	`CREATE INDEX ix_editions_publisher ON editions(publisher_id)`,
	`CREATE INDEX ix_parts_edition ON parts(edition_id)`,
	`CREATE INDEX ix_parts_work ON parts(work_id)`,
	`CREATE INDEX ix_parts_shortstory ON parts(shortstory_id)`,
	`CREATE INDEX ix_contributors_person ON contributors(person_id, role_id)`,
	`CREATE INDEX ix_shortstories_title ON shortstories(title)`,
	`CREATE INDEX ix_persons_alt_name ON persons(alt_name)`,
	`CREATE INDEX ix_persons_nationality ON persons(nationality_id)`,
	`CREATE INDEX ix_aliases_realname ON aliases(realname)`,
	`CREATE INDEX ix_issue_contents_issue ON issue_contents(issue_id)`,
	`CREATE INDEX ix_awarded_person ON awarded(person_id)`,
	`CREATE INDEX ix_awarded_work ON awarded(work_id)`,
	`CREATE INDEX ix_awarded_story ON awarded(story_id)`,
	`CREATE INDEX ix_user_books_edition ON user_books(edition_id)`,
	`CREATE INDEX ix_logs_table ON logs(table_name, table_id)`,
	`CREATE INDEX ix_logs_date ON logs(date)`,
}

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		for _, stmt := range catalogTables {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		for _, stmt := range catalogIndexes {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for i := len(catalogTables) - 1; i >= 0; i-- {
			name := tableName(catalogTables[i])
			if _, err := db.Exec("DROP TABLE IF EXISTS " + name); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
