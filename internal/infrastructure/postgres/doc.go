// Package postgres implementa los repositorios del motor sobre PostgreSQL
// (pgx). Esquema lógico:
//
//	CREATE TABLE articles (
//	    id         uuid PRIMARY KEY,
//	    tenant_id  uuid NOT NULL,
//	    name       text NOT NULL,
//	    unit       text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//
//	CREATE TABLE stock_lots (
//	    id          uuid PRIMARY KEY,
//	    tenant_id   uuid NOT NULL,
//	    article_id  uuid NOT NULL REFERENCES articles(id),
//	    quantity    numeric NOT NULL CHECK (quantity >= 0),
//	    received_at timestamptz NOT NULL,
//	    expiry_at   timestamptz,
//	    threshold   numeric NOT NULL DEFAULT 0,
//	    updated_at  timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE INDEX stock_lots_tenant_article ON stock_lots (tenant_id, article_id);
//
//	CREATE TABLE stock_movements (
//	    id         uuid PRIMARY KEY,
//	    tenant_id  uuid NOT NULL,
//	    lot_id     uuid NOT NULL REFERENCES stock_lots(id),
//	    delta      numeric NOT NULL,
//	    reference  text NOT NULL,
//	    code       text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE UNIQUE INDEX stock_movements_tenant_code ON stock_movements (tenant_id, code);
//
//	CREATE TABLE stock_alerts (
//	    id                 uuid PRIMARY KEY,
//	    tenant_id          uuid NOT NULL,
//	    lot_id             uuid NOT NULL REFERENCES stock_lots(id),
//	    quantity_at_alert  numeric NOT NULL,
//	    threshold_at_alert numeric NOT NULL,
//	    code               text NOT NULL,
//	    created_at         timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE UNIQUE INDEX stock_alerts_tenant_code ON stock_alerts (tenant_id, code);
//
// Los índices únicos (tenant_id, code) son el árbitro final de la unicidad
// de códigos ante allocators concurrentes; el CHECK (quantity >= 0) es la
// última línea de defensa del invariante de no-negatividad (el decremento
// condicional lo garantiza antes).
package postgres
