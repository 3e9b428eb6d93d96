package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the four application tables if they do not exist yet.
// Foreign keys on transactions are declared RESTRICT so that deleting an
// account or cycle that still has transactions fails at the database level
// even if a handler-level check is bypassed.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			account_number        VARCHAR(64)  NOT NULL,
			financial_institution VARCHAR(255) NOT NULL,
			account_name          VARCHAR(255) NOT NULL,
			account_owner         VARCHAR(255) NULL,
			active                TINYINT(1)   NOT NULL DEFAULT 1,
			comments              TEXT         NULL,
			account_type          VARCHAR(64)  NULL,
			load_time             DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			load_by               VARCHAR(255) NULL,
			PRIMARY KEY (account_id),
			UNIQUE KEY uq_accounts_number (account_number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS cycles (
			cycle_id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			cycle_start       DATETIME     NOT NULL,
			cycle_end         DATETIME     NOT NULL,
			cycle_description VARCHAR(255) NULL,
			comments          TEXT         NULL,
			created_at        DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at        DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (cycle_id),
			KEY idx_cycles_range (cycle_start, cycle_end)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS email_checkpoints (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			folder        VARCHAR(255) NOT NULL,
			last_seen_uid BIGINT       NOT NULL,
			load_time     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_checkpoints_folder (folder)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id     BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			transaction_date   DATETIME      NOT NULL,
			transaction_amount DECIMAL(14,2) NOT NULL,
			merchant           VARCHAR(255)  NOT NULL,
			account_id         BIGINT UNSIGNED NOT NULL,
			from_address       VARCHAR(255)  NOT NULL,
			to_address         VARCHAR(255)  NOT NULL,
			email_uid          BIGINT        NOT NULL,
			email_date         DATETIME      NOT NULL,
			transaction_type   VARCHAR(64)   NULL,
			cycle_id           BIGINT UNSIGNED NULL,
			load_time          DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (transaction_id),
			KEY idx_transactions_date (transaction_date),
			KEY idx_transactions_cycle (cycle_id),
			CONSTRAINT fk_transactions_account FOREIGN KEY (account_id)
				REFERENCES accounts (account_id) ON DELETE RESTRICT,
			CONSTRAINT fk_transactions_cycle FOREIGN KEY (cycle_id)
				REFERENCES cycles (cycle_id) ON DELETE RESTRICT
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
