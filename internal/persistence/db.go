// Package persistence provides SQLite-based world state storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/engine"
	"github.com/oakvale/townsim/internal/knowledge"
	"github.com/oakvale/townsim/internal/relations"
	"github.com/oakvale/townsim/internal/town"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		sex INTEGER NOT NULL,
		orientation INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		born_tick INTEGER NOT NULL,
		traits_json TEXT NOT NULL,
		location INTEGER NOT NULL,
		household_id INTEGER,
		employer_id INTEGER,
		occupation INTEGER NOT NULL,
		spouse_id INTEGER,
		mother_id INTEGER,
		father_id INTEGER,
		children_json TEXT NOT NULL,
		pregnant INTEGER NOT NULL,
		due_tick INTEGER NOT NULL,
		pregnant_by INTEGER,
		money INTEGER NOT NULL,
		tracking_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relationships (
		low INTEGER NOT NULL,
		high INTEGER NOT NULL,
		charge REAL NOT NULL,
		spark REAL NOT NULL,
		interactions INTEGER NOT NULL,
		last_tick INTEGER NOT NULL,
		PRIMARY KEY (low, high)
	);

	CREATE TABLE IF NOT EXISTS mental_models (
		observer INTEGER NOT NULL,
		subject INTEGER NOT NULL,
		facts_json TEXT NOT NULL,
		PRIMARY KEY (observer, subject)
	);

	CREATE TABLE IF NOT EXISTS life_events (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		participants_json TEXT NOT NULL,
		outcome TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scheduled_events (
		id TEXT PRIMARY KEY,
		kind INTEGER NOT NULL,
		end_tick INTEGER NOT NULL,
		severity REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_life_events_tick ON life_events(tick);
	CREATE INDEX IF NOT EXISTS idx_agents_alive ON agents(alive);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveAgents writes all agents to the database (full replace).
func (db *DB) SaveAgents(roster []*agents.Agent) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO agents
		(id, name, age, sex, orientation, alive, born_tick, traits_json,
		 location, household_id, employer_id, occupation, spouse_id,
		 mother_id, father_id, children_json, pregnant, due_tick,
		 pregnant_by, money, tracking_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range roster {
		traitsJSON, _ := json.Marshal(a.Traits)
		childrenJSON, _ := json.Marshal(a.Children)
		trackingJSON, _ := json.Marshal(a.Tracking)

		alive, pregnant := 0, 0
		if a.Alive {
			alive = 1
		}
		if a.Pregnant {
			pregnant = 1
		}

		_, err := stmt.Exec(
			a.ID, a.Name, a.Age, a.Sex, a.Orientation, alive, a.BornTick,
			string(traitsJSON), a.Location, a.HouseholdID, a.EmployerID,
			a.Occupation, a.Spouse, a.MotherID, a.FatherID,
			string(childrenJSON), pregnant, a.DueTick, a.PregnantBy,
			a.Money, string(trackingJSON),
		)
		if err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// SaveRelationships writes every pair record (full replace).
func (db *DB) SaveRelationships(store *relations.Store) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO relationships
		(low, high, charge, spark, interactions, last_tick)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range store.All() {
		if _, err := stmt.Exec(r.Pair.Low, r.Pair.High, r.Charge, r.Spark, r.Interactions, r.LastTick); err != nil {
			return fmt.Errorf("insert relationship %d-%d: %w", r.Pair.Low, r.Pair.High, err)
		}
	}
	return tx.Commit()
}

// SaveMentalModels writes every belief record (full replace).
func (db *DB) SaveMentalModels(store *knowledge.Store) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM mental_models"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO mental_models
		(observer, subject, facts_json) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range store.All() {
		factsJSON, _ := json.Marshal(m.Facts)
		if _, err := stmt.Exec(m.Observer, m.Subject, string(factsJSON)); err != nil {
			return fmt.Errorf("insert mental model %d→%d: %w", m.Observer, m.Subject, err)
		}
	}
	return tx.Commit()
}

// SaveScheduledEvents writes pending community events (full replace).
func (db *DB) SaveScheduledEvents(events []*engine.CommunityEvent) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scheduled_events"); err != nil {
		return err
	}
	for _, ev := range events {
		_, err := tx.Exec(
			"INSERT INTO scheduled_events (id, kind, end_tick, severity) VALUES (?, ?, ?, ?)",
			ev.ID.String(), ev.Kind, ev.EndTick, ev.Severity,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState reports whether a saved world exists.
func (db *DB) HasWorldState() bool {
	_, err := db.GetMeta("world_id")
	return err == nil
}

// SaveWorldState performs a full save of one world.
func (db *DB) SaveWorldState(w *engine.World) error {
	slog.Info("saving world state",
		"agents", len(w.Agents),
		"relationships", w.Relations.Len(),
		"mental_models", w.Knowledge.Len(),
	)

	if err := db.SaveAgents(w.Agents); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	if err := db.SaveRelationships(w.Relations); err != nil {
		return fmt.Errorf("save relationships: %w", err)
	}
	if err := db.SaveMentalModels(w.Knowledge); err != nil {
		return fmt.Errorf("save mental models: %w", err)
	}
	if err := db.SaveScheduledEvents(w.Scheduled); err != nil {
		return fmt.Errorf("save scheduled events: %w", err)
	}

	townJSON, err := json.Marshal(w.Town)
	if err != nil {
		return fmt.Errorf("marshal town: %w", err)
	}
	meta := map[string]string{
		"world_id":        w.ID.String(),
		"world_name":      w.Name,
		"town":            string(townJSON),
		"last_tick":       fmt.Sprintf("%d", w.LastTick),
		"morale":          fmt.Sprintf("%f", w.Morale),
		"morale_baseline": fmt.Sprintf("%f", w.MoraleBaseline),
		"next_agent_id":   fmt.Sprintf("%d", w.Spawner.NextID()),
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	slog.Info("world state saved", "tick", w.LastTick)
	return nil
}

// LoadAgents reads the full roster back.
func (db *DB) LoadAgents() ([]*agents.Agent, error) {
	rows, err := db.conn.Queryx(`SELECT id, name, age, sex, orientation,
		alive, born_tick, traits_json, location, household_id, employer_id,
		occupation, spouse_id, mother_id, father_id, children_json,
		pregnant, due_tick, pregnant_by, money, tracking_json FROM agents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []*agents.Agent
	for rows.Next() {
		var (
			a               agents.Agent
			alive, pregnant int
			traitsJSON      string
			childrenJSON    string
			trackingJSON    string
			householdID     sql.NullInt64
			employerID      sql.NullInt64
			spouseID        sql.NullInt64
			motherID        sql.NullInt64
			fatherID        sql.NullInt64
			pregnantBy      sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Age, &a.Sex, &a.Orientation,
			&alive, &a.BornTick, &traitsJSON, &a.Location, &householdID,
			&employerID, &a.Occupation, &spouseID, &motherID, &fatherID,
			&childrenJSON, &pregnant, &a.DueTick, &pregnantBy, &a.Money,
			&trackingJSON); err != nil {
			return nil, err
		}
		a.Alive = alive == 1
		a.Pregnant = pregnant == 1
		if err := json.Unmarshal([]byte(traitsJSON), &a.Traits); err != nil {
			return nil, fmt.Errorf("agent %d traits: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(childrenJSON), &a.Children); err != nil {
			return nil, fmt.Errorf("agent %d children: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(trackingJSON), &a.Tracking); err != nil {
			return nil, fmt.Errorf("agent %d tracking: %w", a.ID, err)
		}
		a.HouseholdID = nullUint64(householdID)
		a.EmployerID = nullUint64(employerID)
		a.Spouse = nullAgentID(spouseID)
		a.MotherID = nullAgentID(motherID)
		a.FatherID = nullAgentID(fatherID)
		a.PregnantBy = nullAgentID(pregnantBy)
		roster = append(roster, &a)
	}
	return roster, rows.Err()
}

// LoadWorld reconstructs a saved world. Collaborators are rewired fresh;
// only state is restored.
func (db *DB) LoadWorld(seed int64) (*engine.World, error) {
	idStr, err := db.GetMeta("world_id")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrWorldNotFound
		}
		return nil, err
	}
	worldID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("world id: %w", err)
	}

	townJSON, err := db.GetMeta("town")
	if err != nil {
		return nil, fmt.Errorf("town meta: %w", err)
	}
	var t town.Town
	if err := json.Unmarshal([]byte(townJSON), &t); err != nil {
		return nil, fmt.Errorf("unmarshal town: %w", err)
	}

	roster, err := db.LoadAgents()
	if err != nil {
		return nil, fmt.Errorf("load agents: %w", err)
	}

	name, _ := db.GetMeta("world_name")
	spawner := agents.NewSpawner(seed)
	if v, err := db.GetMeta("next_agent_id"); err == nil {
		var next uint64
		fmt.Sscanf(v, "%d", &next)
		spawner.SetNextID(agents.AgentID(next))
	}

	w := engine.RestoreWorld(&t, roster, spawner, engine.Options{
		Name: name,
		Seed: seed,
	})
	w.ID = worldID

	if v, err := db.GetMeta("last_tick"); err == nil {
		fmt.Sscanf(v, "%d", &w.LastTick)
	}
	if v, err := db.GetMeta("morale"); err == nil {
		fmt.Sscanf(v, "%f", &w.Morale)
	}
	if v, err := db.GetMeta("morale_baseline"); err == nil {
		fmt.Sscanf(v, "%f", &w.MoraleBaseline)
	}

	if err := db.loadRelationships(w); err != nil {
		return nil, fmt.Errorf("load relationships: %w", err)
	}
	if err := db.loadMentalModels(w); err != nil {
		return nil, fmt.Errorf("load mental models: %w", err)
	}
	if err := db.loadScheduledEvents(w); err != nil {
		return nil, fmt.Errorf("load scheduled events: %w", err)
	}

	slog.Info("world state loaded",
		"agents", len(w.Agents),
		"relationships", w.Relations.Len(),
		"tick", w.LastTick,
	)
	return w, nil
}

func (db *DB) loadRelationships(w *engine.World) error {
	rows, err := db.conn.Queryx("SELECT low, high, charge, spark, interactions, last_tick FROM relationships")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r relations.Relationship
		if err := rows.Scan(&r.Pair.Low, &r.Pair.High, &r.Charge, &r.Spark, &r.Interactions, &r.LastTick); err != nil {
			return err
		}
		w.Relations.Put(&r)
	}
	return rows.Err()
}

func (db *DB) loadMentalModels(w *engine.World) error {
	rows, err := db.conn.Queryx("SELECT observer, subject, facts_json FROM mental_models")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m knowledge.MentalModel
		var factsJSON string
		if err := rows.Scan(&m.Observer, &m.Subject, &factsJSON); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(factsJSON), &m.Facts); err != nil {
			return fmt.Errorf("model %d→%d facts: %w", m.Observer, m.Subject, err)
		}
		w.Knowledge.Put(&m)
	}
	return rows.Err()
}

func (db *DB) loadScheduledEvents(w *engine.World) error {
	rows, err := db.conn.Queryx("SELECT id, kind, end_tick, severity FROM scheduled_events")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ev engine.CommunityEvent
		var idStr string
		if err := rows.Scan(&idStr, &ev.Kind, &ev.EndTick, &ev.Severity); err != nil {
			return err
		}
		if id, err := uuid.Parse(idStr); err == nil {
			ev.ID = id
		}
		w.Scheduled = append(w.Scheduled, &ev)
	}
	return rows.Err()
}

func nullUint64(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	u := uint64(v.Int64)
	return &u
}

func nullAgentID(v sql.NullInt64) *agents.AgentID {
	if !v.Valid {
		return nil
	}
	id := agents.AgentID(v.Int64)
	return &id
}

// Sink is a chronicle.Sink writing life events straight to the database.
type Sink struct {
	db *DB
}

// NewSink creates a database-backed chronicle sink.
func (db *DB) NewSink() *Sink {
	return &Sink{db: db}
}

// Append implements chronicle.Sink.
func (s *Sink) Append(r chronicle.Record) error {
	participantsJSON, _ := json.Marshal(r.Participants)
	_, err := s.db.conn.Exec(
		"INSERT INTO life_events (id, tick, kind, participants_json, outcome) VALUES (?, ?, ?, ?, ?)",
		r.ID.String(), r.Tick, r.Kind.String(), string(participantsJSON), r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("append life event: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent n life events, newest first.
func (db *DB) RecentEvents(n int) ([]chronicle.Record, error) {
	rows, err := db.conn.Queryx(
		"SELECT id, tick, kind, participants_json, outcome FROM life_events ORDER BY tick DESC, id LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chronicle.Record
	for rows.Next() {
		var rec chronicle.Record
		var idStr, kindStr, participantsJSON string
		if err := rows.Scan(&idStr, &rec.Tick, &kindStr, &participantsJSON, &rec.Outcome); err != nil {
			return nil, err
		}
		if id, err := uuid.Parse(idStr); err == nil {
			rec.ID = id
		}
		if kind, ok := chronicle.KindFromString(kindStr); ok {
			rec.Kind = kind
		}
		if err := json.Unmarshal([]byte(participantsJSON), &rec.Participants); err != nil {
			return nil, fmt.Errorf("event %s participants: %w", idStr, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
