/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    separator TEXT NOT NULL,
    yes_total REAL NOT NULL,
    no_total REAL NOT NULL,
    digest TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS itemsets (
    run_id INTEGER NOT NULL,
    side TEXT NOT NULL,
    level INTEGER NOT NULL,
    itemset TEXT NOT NULL,
    count REAL NOT NULL,
    support REAL NOT NULL,
    PRIMARY KEY (run_id, side, level, itemset),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS joined_rows (
    run_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    level INTEGER NOT NULL,
    itemset TEXT NOT NULL,
    seen_in TEXT NOT NULL,
    yes_count REAL,
    no_count REAL,
    total REAL NOT NULL,
    yes_percentage REAL NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_itemsets_run ON itemsets(run_id, side);
CREATE INDEX IF NOT EXISTS idx_joined_level ON joined_rows(run_id, level);
`
