package posedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/stablepose/internal/pose"
)

// PoseSet describes one imported .stp file: where it came from, how many
// poses survived the probability filter, and the filter that was applied.
type PoseSet struct {
	SetID          string
	SourcePath     string
	NumPoses       int
	MinProbability float64
	CreatedAtNs    int64
}

// InsertPoseSet records a pose set and its poses in a single transaction.
// If set.SetID is empty, a new UUID is generated. set.NumPoses is always
// overwritten with len(poses). File order is preserved through the idx
// column.
func (db *DB) InsertPoseSet(set *PoseSet, poses []pose.StablePose) error {
	if set.SetID == "" {
		set.SetID = uuid.New().String()
	}
	if set.CreatedAtNs == 0 {
		set.CreatedAtNs = time.Now().UnixNano()
	}
	set.NumPoses = len(poses)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert pose set: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO pose_sets (set_id, source_path, num_poses, min_probability, created_at_ns)
		VALUES (?, ?, ?, ?, ?)`,
		set.SetID, set.SourcePath, set.NumPoses, set.MinProbability, set.CreatedAtNs)
	if err != nil {
		return fmt.Errorf("insert pose set %s: %w", set.SetID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO poses (set_id, idx, pose_id, probability,
			r00, r01, r02, r10, r11, r12, r20, r21, r22, x0, x1, x2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare pose insert: %w", err)
	}
	defer stmt.Close()

	for i, sp := range poses {
		_, err = stmt.Exec(set.SetID, i, sp.ID, sp.P,
			sp.R[0][0], sp.R[0][1], sp.R[0][2],
			sp.R[1][0], sp.R[1][1], sp.R[1][2],
			sp.R[2][0], sp.R[2][1], sp.R[2][2],
			sp.X0[0], sp.X0[1], sp.X0[2])
		if err != nil {
			return fmt.Errorf("insert pose %d of set %s: %w", i, set.SetID, err)
		}
	}

	return tx.Commit()
}

// PoseSets returns all catalogued pose sets, newest first.
func (db *DB) PoseSets() ([]PoseSet, error) {
	rows, err := db.Query(`
		SELECT set_id, source_path, num_poses, min_probability, created_at_ns
		FROM pose_sets ORDER BY created_at_ns DESC`)
	if err != nil {
		return nil, fmt.Errorf("query pose sets: %w", err)
	}
	defer rows.Close()

	var sets []PoseSet
	for rows.Next() {
		var s PoseSet
		if err := rows.Scan(&s.SetID, &s.SourcePath, &s.NumPoses, &s.MinProbability, &s.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan pose set: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

// PoseSetBySource returns the most recently catalogued set for the given
// source path, or sql.ErrNoRows if none exists.
func (db *DB) PoseSetBySource(sourcePath string) (*PoseSet, error) {
	var s PoseSet
	err := db.QueryRow(`
		SELECT set_id, source_path, num_poses, min_probability, created_at_ns
		FROM pose_sets WHERE source_path = ?
		ORDER BY created_at_ns DESC LIMIT 1`, sourcePath).
		Scan(&s.SetID, &s.SourcePath, &s.NumPoses, &s.MinProbability, &s.CreatedAtNs)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Poses returns the poses of a set in their original file order.
func (db *DB) Poses(setID string) ([]pose.StablePose, error) {
	rows, err := db.Query(`
		SELECT pose_id, probability,
			r00, r01, r02, r10, r11, r12, r20, r21, r22, x0, x1, x2
		FROM poses WHERE set_id = ? ORDER BY idx`, setID)
	if err != nil {
		return nil, fmt.Errorf("query poses for set %s: %w", setID, err)
	}
	defer rows.Close()

	var poses []pose.StablePose
	for rows.Next() {
		var sp pose.StablePose
		err := rows.Scan(&sp.ID, &sp.P,
			&sp.R[0][0], &sp.R[0][1], &sp.R[0][2],
			&sp.R[1][0], &sp.R[1][1], &sp.R[1][2],
			&sp.R[2][0], &sp.R[2][1], &sp.R[2][2],
			&sp.X0[0], &sp.X0[1], &sp.X0[2])
		if err != nil {
			return nil, fmt.Errorf("scan pose: %w", err)
		}
		poses = append(poses, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return poses, nil
}

// DeletePoseSet removes a set and, via the cascading foreign key, its poses.
func (db *DB) DeletePoseSet(setID string) error {
	res, err := db.Exec("DELETE FROM pose_sets WHERE set_id = ?", setID)
	if err != nil {
		return fmt.Errorf("delete pose set %s: %w", setID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
