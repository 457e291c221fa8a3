package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    id                   TEXT PRIMARY KEY,
    scenario_id          TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
    name                 TEXT NOT NULL DEFAULT '',
    current_balance      TEXT NOT NULL DEFAULT '0',
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS paychecks (
    id                   TEXT PRIMARY KEY,
    scenario_id          TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
    name                 TEXT NOT NULL DEFAULT '',
    amount               TEXT NOT NULL,
    schedule             TEXT NOT NULL,
    next_date            TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS credit_cards (
    id                   TEXT PRIMARY KEY,
    scenario_id          TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
    name                 TEXT NOT NULL DEFAULT '',
    next_due_date        TEXT NOT NULL,
    next_due_amount      TEXT NOT NULL,
    avg_future_amount    TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS life_events (
    id                   TEXT PRIMARY KEY,
    scenario_id          TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
    related_paycheck_id  TEXT REFERENCES paychecks(id) ON DELETE SET NULL,
    type                 TEXT NOT NULL,
    label                TEXT NOT NULL DEFAULT '',
    amount               TEXT NOT NULL,
    start_date           TEXT NOT NULL,
    end_date             TEXT,
    recurrence           TEXT NOT NULL DEFAULT 'once',
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_scenario ON accounts(scenario_id);
CREATE INDEX IF NOT EXISTS idx_paychecks_scenario ON paychecks(scenario_id);
CREATE INDEX IF NOT EXISTS idx_credit_cards_scenario ON credit_cards(scenario_id);
CREATE INDEX IF NOT EXISTS idx_life_events_scenario ON life_events(scenario_id);
`
