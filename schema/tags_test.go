package schema_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/twoojoo/zschema/schema"
)

// ---- test structs ----

type Address struct {
	Street string `json:"street" schema:"minLength=3,maxLength=100,required"`
	City   string `json:"city"   schema:"minLength=2,maxLength=50,required"`
}

type User struct {
	Name    string   `json:"name"   schema:"minLength=2,maxLength=50,required"`
	Email   string   `json:"email"  schema:"format=email,required"`
	Age     int      `json:"age"    schema:"minimum=0,maximum=120"`
	Score   float64  `json:"score"  schema:"minimum=0,maximum=100,multipleOf=0.5"`
	Tags    []string `json:"tags"   schema:"minItems=1,maxItems=10,uniqueItems"`
	Role    string   `json:"role"   schema:"enum=admin|editor|viewer"`
	Bio     string   `json:"bio"    schema:"maxLength=500"`
	Address Address  `json:"address"`
}

// ---- helper ----

func mustValidationErrors(t *testing.T, err error) schema.ValidationErrors {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation errors, got nil")
	}
	ve, ok := err.(schema.ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	return ve
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertHasField(t *testing.T, ve schema.ValidationErrors, field string) {
	t.Helper()
	if !ve.Has(field) {
		t.Errorf("expected validation error for field %q, got: %v", field, ve)
	}
}

func validUser() User {
	return User{Name: "Alice", Email: "a@b.com", Age: 25, Tags: []string{"x"}, Address: Address{Street: "Main St", City: "Rome"}}
}

// ---- string constraints ----

func TestString_Required(t *testing.T) {
	u := validUser()
	u.Name = ""
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "name")
	if ve[0].Kind != schema.MissingRequiredField {
		t.Errorf("expected MissingRequiredField, got %s", ve[0].Kind)
	}
}

func TestString_MinLength(t *testing.T) {
	u := validUser()
	u.Name = "A"
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "name")
}

func TestString_MaxLength(t *testing.T) {
	u := validUser()
	u.Name = strings.Repeat("x", 51)
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "name")
}

func TestString_FormatEmail(t *testing.T) {
	assertNoError(t, schema.Validate(validUser()))

	u := validUser()
	u.Email = "not-an-email"
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "email")
}

func TestString_Enum(t *testing.T) {
	u := validUser()
	u.Role = "admin"
	assertNoError(t, schema.Validate(u))

	u.Role = "superuser"
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "role")
}

// ---- number constraints ----

func TestNumber_Bounds(t *testing.T) {
	for _, age := range []int{-1, 200} {
		u := validUser()
		u.Age = age
		ve := mustValidationErrors(t, schema.Validate(u))
		assertHasField(t, ve, "age")
	}
}

func TestNumber_MultipleOf(t *testing.T) {
	u := validUser()
	u.Score = 87.5
	assertNoError(t, schema.Validate(u))

	u.Score = 87.3
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "score")
}

type FloatMultiple struct {
	X float64 `json:"x" schema:"multipleOf=0.1"`
	Y float64 `json:"y" schema:"multipleOf=0.01"`
}

func TestMultipleOf_FloatPrecision(t *testing.T) {
	// 0.3 = 3 × 0.1, but naive math.Mod gives ~0.1 due to float64 repr
	assertNoError(t, schema.Validate(FloatMultiple{X: 0.3, Y: 0.07}))

	ve := mustValidationErrors(t, schema.Validate(FloatMultiple{X: 0.35}))
	assertHasField(t, ve, "x")
}

type Bounds struct {
	Ex float64 `json:"ex" schema:"exclusiveMinimum=0,exclusiveMaximum=10"`
}

func TestExclusiveBoundaries(t *testing.T) {
	_, err := schema.Parse[Bounds]([]byte(`{"ex":0}`))
	assertHasField(t, mustValidationErrors(t, err), "ex")

	_, err = schema.Parse[Bounds]([]byte(`{"ex":10}`))
	assertHasField(t, mustValidationErrors(t, err), "ex")

	_, err = schema.Parse[Bounds]([]byte(`{"ex":9.99}`))
	assertNoError(t, err)
}

// ---- array constraints ----

func TestArray_Items(t *testing.T) {
	u := validUser()
	u.Tags = []string{}
	assertHasField(t, mustValidationErrors(t, schema.Validate(u)), "tags")

	u.Tags = make([]string, 11)
	for i := range u.Tags {
		u.Tags[i] = "t" + strings.Repeat("x", i)
	}
	assertHasField(t, mustValidationErrors(t, schema.Validate(u)), "tags")

	u.Tags = []string{"go", "go"}
	assertHasField(t, mustValidationErrors(t, schema.Validate(u)), "tags")
}

// ---- unicode ----

type UnicodeStruct struct {
	Name string `json:"name" schema:"minLength=2,maxLength=4"`
}

func TestUnicode_RunesNotBytes(t *testing.T) {
	// 🚀 is 4 UTF-8 bytes but 1 rune: maxLength=4 means runes, not bytes
	assertNoError(t, schema.Validate(UnicodeStruct{Name: "🚀🚀🚀"}))

	// "こんにちは" = 5 runes but 15 UTF-8 bytes.
	ve := mustValidationErrors(t, schema.Validate(UnicodeStruct{Name: "こんにちは"}))
	assertHasField(t, ve, "name")

	assertNoError(t, schema.Validate(UnicodeStruct{Name: "AB"}))
	assertNoError(t, schema.Validate(UnicodeStruct{Name: "ABCD"}))
}

// ---- nested struct ----

func TestNested_Required(t *testing.T) {
	u := validUser()
	u.Address.Street = ""
	ve := mustValidationErrors(t, schema.Validate(u))
	assertHasField(t, ve, "address.street")
}

type Level3 struct {
	Value string `json:"value" schema:"required,minLength=1"`
}

type Level2 struct {
	Inner Level3 `json:"inner" schema:"required"`
}

type Level1 struct {
	Mid Level2 `json:"mid" schema:"required"`
}

func TestDeepNesting(t *testing.T) {
	assertNoError(t, schema.Validate(Level1{Mid: Level2{Inner: Level3{Value: "hello"}}}))

	_, err := schema.Parse[Level1]([]byte(`{"mid":{"inner":{"value":""}}}`))
	assertHasField(t, mustValidationErrors(t, err), "mid.inner.value")
}

// ---- pointers ----

type WithPointers struct {
	Name    *string `json:"name"    schema:"required,minLength=2"`
	Age     *int    `json:"age"     schema:"minimum=0"`
	Enabled *bool   `json:"enabled"`
}

func TestPointer_Fields(t *testing.T) {
	assertHasField(t, mustValidationErrors(t, schema.Validate(WithPointers{})), "name")

	short := "A"
	assertHasField(t, mustValidationErrors(t, schema.Validate(WithPointers{Name: &short})), "name")

	n, a, b := "Alice", 30, true
	assertNoError(t, schema.Validate(WithPointers{Name: &n, Age: &a, Enabled: &b}))
	assertNoError(t, schema.Validate(&WithPointers{Name: &n}))
}

type NullableDoc struct {
	Name *string `json:"name" schema:"required,nullable"`
}

func TestNullable(t *testing.T) {
	doc, err := schema.Parse[NullableDoc]([]byte(`{"name":null}`))
	assertNoError(t, err)
	if doc.Name != nil {
		t.Errorf("expected nil name, got %q", *doc.Name)
	}

	_, err = schema.Parse[WithPointers]([]byte(`{"name":null}`))
	assertHasField(t, mustValidationErrors(t, err), "name")
}

// ---- Validate inputs ----

func TestValidate_NonStructInputs(t *testing.T) {
	if err := schema.Validate(42); err == nil {
		t.Error("expected error for int input")
	}
	var p *User
	ve := mustValidationErrors(t, schema.Validate(p))
	if len(ve) != 1 || ve[0].Message != "value is nil" {
		t.Errorf("unexpected errors for nil pointer: %v", ve)
	}
	if _, err := schema.ToJSONSchema[int](); err == nil {
		t.Error("expected error for non-struct type parameter")
	}
}

type MultiError struct {
	A string `json:"a" schema:"required"`
	B string `json:"b" schema:"required"`
	C int    `json:"c" schema:"minimum=10"`
	D string `json:"d" schema:"minLength=5"`
	E string `json:"-" schema:"required"`
}

func TestMultipleErrors_AllCollectedInOrder(t *testing.T) {
	ve := mustValidationErrors(t, schema.Validate(MultiError{C: 1, D: "hi"}))
	got := strings.Join(ve.Fields(), ",")
	if got != "a,b,c,d" {
		t.Errorf("expected a,b,c,d in declaration order, got %s", got)
	}
}

// ---- Parse[T] ----

func TestParse(t *testing.T) {
	data := []byte(`{"name":"Alice","email":"alice@example.com","age":30,"tags":["go"],"address":{"street":"Via Roma 1","city":"Rome"}}`)
	u, err := schema.Parse[User](data)
	assertNoError(t, err)
	if u.Name != "Alice" || u.Age != 30 || u.Address.City != "Rome" {
		t.Errorf("unexpected parse result: %+v", u)
	}

	if _, err := schema.Parse[User]([]byte(`{not json}`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	} else if _, ok := err.(schema.ValidationErrors); ok {
		t.Error("malformed JSON must not be reported as validation errors")
	}

	_, err = schema.Parse[User]([]byte(`{"name":123,"email":"a@b.com"}`))
	assertHasField(t, mustValidationErrors(t, err), "name")

	_, err = schema.Parse[User]([]byte(`[1,2]`))
	ve := mustValidationErrors(t, err)
	if ve[0].Rule != "type" || len(ve[0].Path) != 0 {
		t.Errorf("expected root type error, got %v", ve)
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustParse to panic on invalid input")
		}
	}()
	schema.MustParse[User]([]byte(`{"name":"X"}`)) // too short + missing required fields
}

func TestMustValidate_PanicContainsField(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected MustValidate to panic")
		}
		if !strings.Contains(r.(string), `"email"`) {
			t.Errorf("panic message should name the field: %v", r)
		}
	}()
	schema.MustValidate(User{Name: "Alice"})
}

// ---- const constraint ----

type StatusDoc struct {
	Status  string  `json:"status"  schema:"const=active"`
	Version float64 `json:"version" schema:"const=2"`
	Debug   bool    `json:"debug"   schema:"const=true"`
}

func TestConst(t *testing.T) {
	assertNoError(t, schema.Validate(StatusDoc{Status: "active", Version: 2, Debug: true}))
	assertHasField(t, mustValidationErrors(t, schema.Validate(StatusDoc{Status: "inactive"})), "status")
	assertHasField(t, mustValidationErrors(t, schema.Validate(StatusDoc{Version: 1})), "version")

	_, err := schema.Parse[StatusDoc]([]byte(`{"debug":false}`))
	assertHasField(t, mustValidationErrors(t, err), "debug")
}

// ---- default values ----

type Config struct {
	Lang    string `json:"lang"    schema:"enum=en|fr|de,default=en"`
	Timeout int    `json:"timeout" schema:"minimum=1,default=30"`
	Verbose bool   `json:"verbose" schema:"default=true"`
}

func TestDefault(t *testing.T) {
	cfg, err := schema.Parse[Config]([]byte(`{}`))
	assertNoError(t, err)
	if cfg.Lang != "en" || cfg.Timeout != 30 || !cfg.Verbose {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	cfg, err = schema.Parse[Config]([]byte(`{"lang":"fr","timeout":60,"verbose":false}`))
	assertNoError(t, err)
	if cfg.Lang != "fr" || cfg.Timeout != 60 || cfg.Verbose {
		t.Errorf("defaults overrode input: %+v", cfg)
	}
}

type BadDefault struct {
	N int `json:"n" schema:"default=abc"`
}

type BadPattern struct {
	S string `json:"s" schema:"pattern=[a-"`
}

type BadFormat struct {
	S string `json:"s" schema:"format=zipcode"`
}

func TestFromStruct_TagErrors(t *testing.T) {
	if _, err := schema.FromStruct[BadDefault](); err == nil {
		t.Error("expected error for unparsable default")
	}
	if _, err := schema.FromStruct[BadPattern](); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if _, err := schema.FromStruct[BadFormat](); err == nil {
		t.Error("expected error for unknown format")
	}
}

// ---- additionalProperties ----

type StrictStruct struct {
	_    any    `schema:"additionalProperties=false"`
	Name string `json:"name"`
}

func TestAdditionalProperties_Parse(t *testing.T) {
	_, err := schema.Parse[StrictStruct]([]byte(`{"name":"Alice","extra":"field"}`))
	ve := mustValidationErrors(t, err)
	assertHasField(t, ve, "extra")
	if ve[0].Rule != "unrecognized_key" {
		t.Errorf("expected unrecognized_key, got %s", ve[0].Rule)
	}
}

// ---- dependentRequired ----

type DepDoc struct {
	_         any    `schema:"dependentRequired:billing_id=credit_card|billing_addr"`
	BillingID string `json:"billing_id"`
	CC        string `json:"credit_card"`
	Addr      string `json:"billing_addr"`
}

func TestDependentRequired_Validation(t *testing.T) {
	assertNoError(t, schema.Validate(DepDoc{}))
	assertNoError(t, schema.Validate(DepDoc{BillingID: "123", CC: "visa", Addr: "123 St"}))

	ve := mustValidationErrors(t, schema.Validate(DepDoc{BillingID: "123"}))
	assertHasField(t, ve, "credit_card")
	assertHasField(t, ve, "billing_addr")
	for _, e := range ve {
		if e.Kind != schema.RefinementViolation {
			t.Errorf("expected RefinementViolation, got %s", e.Kind)
		}
	}
}

// ---- ToJSONSchema[T] ----

type AnnotatedStruct struct {
	_    any    `schema:"title=My Object,description=A well-documented struct"`
	Name string `json:"name" schema:"required"`
}

func TestToJSONSchema(t *testing.T) {
	js, err := schema.ToJSONSchema[User]()
	assertNoError(t, err)

	if js["type"] != "object" {
		t.Errorf("expected type=object, got %v", js["type"])
	}
	props, ok := js["properties"].(map[string]any)
	if !ok {
		t.Fatal("expected properties map")
	}
	for _, k := range []string{"name", "email", "address"} {
		if _, ok := props[k]; !ok {
			t.Errorf("expected %q in properties", k)
		}
	}
	req, _ := js["required"].([]string)
	if strings.Join(req, ",") != "name,email" {
		t.Errorf("expected required [name email], got %v", js["required"])
	}

	ann, err := schema.ToJSONSchema[AnnotatedStruct]()
	assertNoError(t, err)
	if ann["title"] != "My Object" || ann["description"] != "A well-documented struct" {
		t.Errorf("expected title/description, got %v / %v", ann["title"], ann["description"])
	}

	strict, err := schema.ToJSONSchema[StrictStruct]()
	assertNoError(t, err)
	if strict["additionalProperties"] != false {
		t.Errorf("expected additionalProperties:false, got %v", strict["additionalProperties"])
	}

	dep, err := schema.ToJSONSchema[DepDoc]()
	assertNoError(t, err)
	if _, ok := dep["dependentRequired"]; !ok {
		t.Error("expected dependentRequired in JSON Schema output")
	}
}

func TestToJSONSchemaIndent(t *testing.T) {
	b, err := schema.ToJSONSchemaIndent[User]("", "  ")
	assertNoError(t, err)

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("failed to unmarshal indented JSON: %v", err)
	}
	if !bytes.Contains(b, []byte("\n  ")) {
		t.Error("expected indented JSON to contain newline and spaces")
	}

	tabbed := schema.MustToJSONSchemaIndent[User]("", "\t")
	if !bytes.Contains(tabbed, []byte("\t")) {
		t.Error("expected indented JSON to contain tab character")
	}
}

// ---- ValidationErrors.MarshalJSON ----

func TestValidationErrors_MarshalJSON(t *testing.T) {
	ve := mustValidationErrors(t, schema.Validate(User{Name: "A", Email: "a@b.com"}))
	b, err := json.Marshal(ve)
	assertNoError(t, err)

	var entries []map[string]any
	assertNoError(t, json.Unmarshal(b, &entries))
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %s", b)
	}
	path, _ := entries[0]["path"].([]any)
	if len(path) != 1 || path[0] != "name" {
		t.Errorf("expected path [name], got %v", entries[0]["path"])
	}
	if _, leaked := entries[0]["value"]; leaked {
		t.Error("input values must not be serialized")
	}
}
