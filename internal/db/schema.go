package db

// SchemaSQL contains the database schema initialization SQL.
// All three tables are keyed by session_id so redelivered triggers overwrite
// the same document instead of creating a duplicate.
const SchemaSQL = `
    -- ==========================================================================
    -- QUEUE TABLE (audio submissions awaiting transcription)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS queue SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON queue TYPE string;
    DEFINE FIELD IF NOT EXISTS audio_url ON queue TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON queue TYPE string DEFAULT "waiting";
    DEFINE FIELD IF NOT EXISTS error_message ON queue TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created_at ON queue TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON queue TYPE option<datetime>;
    DEFINE INDEX IF NOT EXISTS queue_session ON queue FIELDS session_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS queue_status ON queue FIELDS status;

    -- ==========================================================================
    -- TRANSCRIPTION TABLE (transcript + session-wide pipeline status)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS transcription SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON transcription TYPE string;
    DEFINE FIELD IF NOT EXISTS audio_url ON transcription TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS text ON transcription TYPE string;
    DEFINE FIELD IF NOT EXISTS language ON transcription TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS duration ON transcription TYPE option<float>;
    DEFINE FIELD IF NOT EXISTS context ON transcription TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS status ON transcription TYPE string;
    DEFINE FIELD IF NOT EXISTS error_message ON transcription TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created_at ON transcription TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON transcription TYPE option<datetime>;
    DEFINE INDEX IF NOT EXISTS transcription_session ON transcription FIELDS session_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS transcription_status ON transcription FIELDS status;

    -- ==========================================================================
    -- CLINICAL RECORD TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS clinical_record SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON clinical_record TYPE string;
    DEFINE FIELD IF NOT EXISTS summary ON clinical_record TYPE string;
    DEFINE FIELD IF NOT EXISTS patient_info ON clinical_record TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS symptoms ON clinical_record TYPE array FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS reason_for_visit ON clinical_record TYPE string;
    DEFINE FIELD IF NOT EXISTS classified_symptoms ON clinical_record TYPE array FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS diagnosis_report ON clinical_record TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS diagnosis ON clinical_record TYPE option<array> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created_at ON clinical_record TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON clinical_record TYPE option<datetime>;
    DEFINE INDEX IF NOT EXISTS clinical_record_session ON clinical_record FIELDS session_id UNIQUE;
`
