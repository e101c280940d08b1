package logger

import "testing"

func TestSanitizeRedactsSecretsAndHashesStudents(t *testing.T) {
	l := &Logger{redact: true, hashSalt: "salt"}

	out := l.sanitizeKVs([]interface{}{"neo4j_password", "hunter2", "student_id", "s-42", "course_id", 7})
	if len(out) != 6 {
		t.Fatalf("unexpected kv length: got=%d want=6", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password not redacted: got=%v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || len(hashed) != len("hash:")+12 {
		t.Fatalf("student id not hashed: got=%v", out[3])
	}
	if out[5] != 7 {
		t.Fatalf("plain field changed: got=%v want=7", out[5])
	}

	again := l.sanitizeKVs([]interface{}{"student_id", "s-42"})
	if again[1] != hashed {
		t.Fatalf("hash not stable: got=%v want=%v", again[1], hashed)
	}
}

func TestSanitizeDisabledPassesThrough(t *testing.T) {
	l := &Logger{}
	out := l.sanitizeKVs([]interface{}{"password", "x"})
	if out[1] != "x" {
		t.Fatalf("redaction should be off: got=%v", out[1])
	}
}

func TestSanitizeOddKeyCount(t *testing.T) {
	l := &Logger{redact: true}
	out := l.sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("dangling key dropped: got=%v", out)
	}
}
