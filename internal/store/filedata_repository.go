// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/vaultkeeper/vaultkeeper/internal/encoding"
	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/logger"
)

// FileDataRepository is the relational access layer for the files_data
// table. The ciphertext blob itself never passes through this repository;
// only path, filename, owner, and the blob's current nonce do.
type FileDataRepository struct {
	ex     execer
	logger *logger.Logger
}

// Select implements spec §4.4 operation 1 for FileData, keyed by path.
func (r *FileDataRepository) Select(ctx context.Context, path string) (*entity.FileData, error) {
	row := r.ex.QueryRowContext(ctx, selectFileData, path)
	fd, err := scanFileData(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fd, nil
}

// SelectOwned implements spec §4.4 operation 3 for FileData: every file
// belonging to owner.
func (r *FileDataRepository) SelectOwned(ctx context.Context, owner string) ([]entity.FileData, error) {
	rows, err := r.ex.QueryContext(ctx, selectOwnedFilesData, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var files []entity.FileData
	for rows.Next() {
		fd, err := scanFileData(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *fd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return files, nil
}

// SelectAll implements spec §4.4 operation 4 for FileData.
func (r *FileDataRepository) SelectAll(ctx context.Context) ([]entity.FileData, error) {
	rows, err := r.ex.QueryContext(ctx, selectAllFilesData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var files []entity.FileData
	for rows.Next() {
		fd, err := scanFileData(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *fd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return files, nil
}

// Insert implements spec §4.4 operation 5 for FileData.
func (r *FileDataRepository) Insert(ctx context.Context, fd entity.FileData) error {
	_, err := r.ex.ExecContext(ctx, insertFileData,
		fd.Path, fd.Filename, fd.OwnerUsername, encoding.Encode(fd.ContentsNonce[:]),
	)
	if err != nil {
		return classifyConstraintError(err)
	}
	return nil
}

// Delete implements spec §4.4 operation 6 for FileData.
func (r *FileDataRepository) Delete(ctx context.Context, path string) error {
	return execAssertingOneRow(ctx, r.ex, deleteFileData, []any{path})
}

// UpdateContentsNonce implements spec §4.6.4's file update: the blob
// contents are rewritten on disk with a fresh nonce, and this updates the
// matching metadata column — spec §4.4 operation 7.
func (r *FileDataRepository) UpdateContentsNonce(ctx context.Context, path string, nonce [12]byte) error {
	return updateOneColumn(ctx, r.ex, "files_data", "contents_nonce", encoding.Encode(nonce[:]), sq.Eq{"path": path})
}

func scanFileData(s scanner) (*entity.FileData, error) {
	var path, filename, owner, nonceEnc string

	if err := s.Scan(&path, &filename, &owner, &nonceEnc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	nonce, err := encoding.DecodeFixed(nonceEnc, 12)
	if err != nil {
		return nil, err
	}

	fd := &entity.FileData{Path: path, Filename: filename, OwnerUsername: owner}
	copy(fd.ContentsNonce[:], nonce)
	return fd, nil
}
