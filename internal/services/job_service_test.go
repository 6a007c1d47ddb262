package services

import (
	"context"
	"testing"

	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/dtos"
	"github.com/rolejet/RoleJet/internal/search"
)

func TestCreateJobRequiresFields(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme", "a@gmail.com")
	_, err := f.jobs.Create(context.Background(), acme, dtos.JobPostRequest{Title: "Backend"})
	assertKind(t, err, common.ErrMissingFields, common.CodeValidation)

	job := f.job(t, acme, "Backend", "Remote")
	if job.CompanyID != acme.ID || len(job.RequiredSkills) != 2 || job.RequiredSkills[1] != "SQL" {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestSearchJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.company(t, "Acme", "a@gmail.com")
	remote := f.job(t, acme, "Backend Engineer", "Remote")
	f.job(t, acme, "Frontend Engineer", "Onsite")
	hybrid := f.job(t, acme, "Data Engineer", "Hybrid (remote 3 days)")

	all, err := f.jobs.Search(ctx, search.Filter{WorkMode: "all", Category: "ALL"})
	if err != nil || len(all) != 3 {
		t.Fatalf("empty filter must return everything: %d %v", len(all), err)
	}
	if all[0].ID != remote.ID || all[2].ID != hybrid.ID {
		t.Fatalf("results must keep insertion order")
	}

	got, err := f.jobs.Search(ctx, search.Filter{WorkMode: "remote"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].ID != remote.ID || got[1].ID != hybrid.ID {
		t.Fatalf("workMode filter returned %+v", got)
	}

	got, _ = f.jobs.Search(ctx, search.Filter{Query: "sql", Location: "pune"})
	if len(got) != 3 {
		t.Fatalf("skill query should match every posting, got %d", len(got))
	}
	got, _ = f.jobs.Search(ctx, search.Filter{Query: "rust"})
	if len(got) != 0 || got == nil {
		t.Fatalf("no match must be an empty list, got %#v", got)
	}
}

func TestCompanyJobListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.company(t, "Acme", "a@gmail.com")
	globex := f.company(t, "Globex", "g@gmail.com")
	mine := f.job(t, acme, "Backend", "Remote")
	f.job(t, globex, "Other", "Remote")

	jobs, err := f.jobs.ListByCompanyEmail(ctx, "a@gmail.com")
	if err != nil || len(jobs) != 1 || jobs[0].ID != mine.ID {
		t.Fatalf("unexpected listing %+v %v", jobs, err)
	}
	_, err = f.jobs.ListByCompanyEmail(ctx, "ghost@gmail.com")
	assertKind(t, err, nil, common.CodeNotFound)

	detail, err := f.jobs.GetWithCompany(ctx, mine.ID)
	if err != nil || detail.Company == nil || detail.Company.Name != "Acme" {
		t.Fatalf("owner not attached: %+v %v", detail, err)
	}

	if err := f.jobs.Delete(ctx, mine.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = f.jobs.Get(ctx, mine.ID)
	assertKind(t, err, nil, common.CodeNotFound)
	assertKind(t, f.jobs.Delete(ctx, mine.ID), nil, common.CodeNotFound)
}
