package config

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Result buckets of the target judge.
const (
	Accepted          = "accepted"
	WrongAnswer       = "wrong_answer"
	TimeLimitExceeded = "time_limit_exceed"
	RunTimeError      = "run_time_error"
)

var resultNames = mapset.NewSet(Accepted, WrongAnswer, TimeLimitExceeded, RunTimeError)

// Result maps a set of source system tags onto one result bucket.
type Result struct {
	Name string
	Tags []string
}

func NewResult(name string, tags []string) (*Result, error) {
	if !resultNames.Contains(name) {
		return nil, errorf("Invalid Result Name %q", name)
	}
	return &Result{Name: name, Tags: tags}, nil
}

// Results is a set of result buckets with a tag -> bucket index.
type Results struct {
	names   []string
	results map[string]*Result
	tags    map[string]string
}

func NewResults() *Results {
	return &Results{
		results: make(map[string]*Result),
		tags:    make(map[string]string),
	}
}

// Update merges result definitions into the set. The tag list of a known
// result is replaced. The tag index is rebuilt afterwards and a tag that maps
// to two results fails the whole call.
func (rs *Results) Update(data any) error {
	m, ok := data.(Mapping)
	if !ok {
		return errorf("Config file error: content must be a mapping, but is %s.", typeName(data))
	}

	for _, e := range m {
		name, ok := e.Key.(string)
		if !ok {
			return errorf("Config file error: result names must be strings, but %v is %s.", e.Key, typeName(e.Key))
		}
		list, ok := e.Value.([]any)
		if !ok {
			return errorf("Config file error: tags list must be a list, but tags of result %s is %s.",
				name, typeName(e.Value))
		}
		tags := make([]string, 0, len(list))
		for _, v := range list {
			tag, ok := v.(string)
			if !ok {
				return errorf("Config file error: tags of result %s must be strings, but %v is %s.", name, v, typeName(v))
			}
			tags = append(tags, tag)
		}

		if r, exists := rs.results[name]; exists {
			r.Tags = tags
			continue
		}
		r, err := NewResult(name, tags)
		if err != nil {
			return err
		}
		rs.results[name] = r
		rs.names = append(rs.names, name)
	}

	return rs.reindex()
}

func (rs *Results) reindex() error {
	clear(rs.tags)
	for _, name := range rs.names {
		for _, tag := range rs.results[name].Tags {
			if other, exists := rs.tags[tag]; exists {
				return errorf("Result %s and %s both have tag %s.", other, name, tag)
			}
			rs.tags[tag] = name
		}
	}
	return nil
}

// Lookup returns the result bucket a source tag belongs to.
func (rs *Results) Lookup(tag string) (string, bool) {
	name, ok := rs.tags[tag]
	return name, ok
}

func (rs *Results) Get(name string) (*Result, bool) {
	r, ok := rs.results[name]
	return r, ok
}

// Names returns result bucket names in insertion order.
func (rs *Results) Names() []string {
	return append([]string(nil), rs.names...)
}
