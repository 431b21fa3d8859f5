package main

import (
	"github.com/facepass-lab/backend/internal/domain"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) loadCollection() {
	s.loadOracle()
	s.loadStorage()
	s.loadRepos()
	s.collectionDomain = domain.NewCollectionDomain(s.identityRepo, s.oracle, s.storage)
}

func (s *srv) startSetupCollection(*cli.Context) error {
	s.loadCollection()

	created, err := s.collectionDomain.Setup(s.ctx)
	if err != nil {
		return err
	}

	if !created {
		xcontext.Logger(s.ctx).Infof("Face collection %s already exists",
			xcontext.Configs(s.ctx).Rekognition.CollectionID)
	}

	return nil
}

func (s *srv) startVerifySetup(*cli.Context) error {
	s.loadCollection()

	status, err := s.collectionDomain.Verify(s.ctx)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Face collection %s holds %d faces, created at %s, bucket %s is reachable",
		status.CollectionID, status.FaceCount, status.CreatedAt, status.Bucket)
	return nil
}

func (s *srv) startCleanupFaces(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadCollection()

	result, err := s.collectionDomain.CleanupFaces(s.ctx, cctx.Bool("dry-run"))
	if err != nil {
		return err
	}

	for _, faceID := range result.Orphans {
		xcontext.Logger(s.ctx).Infof("Orphan face %s", faceID)
	}

	return nil
}
