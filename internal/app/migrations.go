package app

// SQL-миграции встроены в бинарник для упрощения деплоя.
// Применяются строго по возрастанию version, повторно не выполняются
// (см. postgres.ExecMigrationSQL).

var migrations = []struct {
	version int
	sql     string
}{
	{1, migration001Groups},
	{2, migration002Users},
	{3, migration003Habits},
	{4, migration004Completions},
	{5, migration005Streaks},
	{6, migration006Medals},
	{7, migration007Rewards},
	{8, migration008RewardPurchases},
	{9, migration009Transactions},
	{10, migration010Mall},
	{11, migration011GroupAchievements},
}

var migration001Groups = `
CREATE TABLE IF NOT EXISTS groups (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    group_chat_id BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_groups_chat ON groups(group_chat_id);
`

var migration002Users = `
CREATE TABLE IF NOT EXISTS users (
    telegram_id BIGINT PRIMARY KEY,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    group_id BIGINT REFERENCES groups(id),
    points_physical BIGINT NOT NULL DEFAULT 0,
    points_arts BIGINT NOT NULL DEFAULT 0,
    points_food_related BIGINT NOT NULL DEFAULT 0,
    points_educational BIGINT NOT NULL DEFAULT 0,
    points_other BIGINT NOT NULL DEFAULT 0,
    coins NUMERIC(12,1) NOT NULL DEFAULT 0,
    joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_group ON users(group_id);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));
`

var migration003Habits = `
CREATE TABLE IF NOT EXISTS habits (
    id BIGSERIAL PRIMARY KEY,
    group_id BIGINT NOT NULL REFERENCES groups(id),
    name VARCHAR(255) NOT NULL,
    point_type VARCHAR(32) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_habits_group ON habits(group_id);
`

var migration004Completions = `
CREATE TABLE IF NOT EXISTS habit_completions (
    id BIGSERIAL PRIMARY KEY,
    habit_id BIGINT NOT NULL REFERENCES habits(id),
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    completed_on DATE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(habit_id, user_id, completed_on)
);
CREATE INDEX IF NOT EXISTS idx_completions_user_date ON habit_completions(user_id, completed_on);
CREATE INDEX IF NOT EXISTS idx_completions_habit_date ON habit_completions(habit_id, completed_on);
`

var migration005Streaks = `
CREATE TABLE IF NOT EXISTS streaks (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    habit_id BIGINT NOT NULL REFERENCES habits(id),
    current_streak INT NOT NULL DEFAULT 0,
    best_streak INT NOT NULL DEFAULT 0,
    last_completion_date DATE,
    announced_7 BOOLEAN NOT NULL DEFAULT FALSE,
    announced_15 BOOLEAN NOT NULL DEFAULT FALSE,
    announced_30 BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE(user_id, habit_id)
);
`

// medals: habit_id без внешнего ключа, медаль переживает удаление
// привычки, имя денормализовано
var migration006Medals = `
CREATE TABLE IF NOT EXISTS medals (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(telegram_id),
    habit_id BIGINT NOT NULL,
    habit_name VARCHAR(255) NOT NULL,
    earned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(user_id, habit_id)
);
CREATE INDEX IF NOT EXISTS idx_medals_user ON medals(user_id);
`

var migration007Rewards = `
CREATE TABLE IF NOT EXISTS rewards (
    id BIGSERIAL PRIMARY KEY,
    owner_id BIGINT NOT NULL REFERENCES users(telegram_id),
    name VARCHAR(255) NOT NULL,
    price BIGINT NOT NULL,
    point_type VARCHAR(32) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_rewards_owner ON rewards(owner_id) WHERE is_active;
`

var migration008RewardPurchases = `
CREATE TABLE IF NOT EXISTS reward_purchases (
    id BIGSERIAL PRIMARY KEY,
    reward_id BIGINT NOT NULL REFERENCES rewards(id),
    buyer_id BIGINT NOT NULL REFERENCES users(telegram_id),
    seller_id BIGINT NOT NULL REFERENCES users(telegram_id),
    price BIGINT NOT NULL,
    point_type VARCHAR(32) NOT NULL,
    purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reward_purchases_buyer ON reward_purchases(buyer_id);
`

var migration009Transactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    from_user_id BIGINT,
    to_user_id BIGINT,
    point_type VARCHAR(32),
    amount NUMERIC(12,1) NOT NULL,
    transaction_type VARCHAR(64) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_from ON transactions(from_user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_transactions_to ON transactions(to_user_id, created_at DESC);
`

var migration010Mall = `
CREATE TABLE IF NOT EXISTS mall_items (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    price NUMERIC(12,1) NOT NULL,
    stock BIGINT NOT NULL DEFAULT -1,
    photo_file_id TEXT,
    sponsor_id BIGINT REFERENCES users(telegram_id),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS mall_purchases (
    id BIGSERIAL PRIMARY KEY,
    item_id BIGINT NOT NULL REFERENCES mall_items(id),
    buyer_id BIGINT NOT NULL REFERENCES users(telegram_id),
    price NUMERIC(12,1) NOT NULL,
    purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_mall_purchases_buyer ON mall_purchases(buyer_id);
`

var migration011GroupAchievements = `
CREATE TABLE IF NOT EXISTS group_achievements (
    id BIGSERIAL PRIMARY KEY,
    group_id BIGINT NOT NULL REFERENCES groups(id),
    habit_id BIGINT NOT NULL REFERENCES habits(id),
    month VARCHAR(7) NOT NULL,
    achieved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(group_id, habit_id, month)
);
`
