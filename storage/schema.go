package storage

const schema = `
create table if not exists users (
	id            uuid primary key,
	username      text not null unique,
	password_hash text not null,
	created_at    timestamptz not null default now()
);

create table if not exists workboards (
	id          uuid primary key,
	name        text not null,
	description text not null default '',
	owner_id    uuid not null references users(id) on delete cascade,
	created_at  timestamptz not null default now(),
	updated_at  timestamptz not null default now()
);

create index if not exists workboards_owner_idx on workboards(owner_id);

create table if not exists tasks (
	id           uuid primary key,
	workboard_id uuid not null references workboards(id) on delete cascade,
	title        text not null,
	description  text not null default '',
	status       text not null default 'todo',
	assigned_to  uuid not null references users(id),
	created_at   timestamptz not null default now()
);

create index if not exists tasks_workboard_idx on tasks(workboard_id);
`
