package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/constants"
)

// packageSASValidity is how long a package SAS stays valid. The Functions host
// re-reads the package URL on every cold start, so it must outlive the deploy.
const packageSASValidity = 10 * 365 * 24 * time.Hour

// PackageLocation identifies an uploaded deployment package.
type PackageLocation struct {
	BlobURL string
	SASURL  string
}

// StorageService uploads deployment packages to the app's storage account.
type StorageService struct {
	accounts *armstorage.AccountsClient
}

// NewStorageService creates a StorageService from a storage accounts client.
func NewStorageService(accounts *armstorage.AccountsClient) *StorageService {
	return &StorageService{accounts: accounts}
}

// AccountKey returns the primary access key of the storage account.
func (s *StorageService) AccountKey(ctx context.Context, group, account string) (string, error) {
	resp, err := s.accounts.ListKeys(ctx, group, account, nil)
	if err != nil {
		return "", fmt.Errorf("failed to list keys for storage account %s: %w", account, err)
	}
	if len(resp.Keys) == 0 || resp.Keys[0].Value == nil {
		return "", fmt.Errorf("storage account %s has no access keys", account)
	}
	return *resp.Keys[0].Value, nil
}

// UploadPackage uploads the package file to the releases container and returns
// its location together with a read-only SAS the Functions host can use.
func (s *StorageService) UploadPackage(ctx context.Context, group, account, blobName, packagePath string) (location *PackageLocation, err error) {
	logger := zerolog.Ctx(ctx)

	defer func(begin time.Time) {
		logger.Info().
			Interface("error", err).
			Str("account", account).
			Str("blob", blobName).
			Dur("duration", time.Since(begin)).
			Msg("Uploaded deployment package")
	}(time.Now())

	key, err := s.AccountKey(ctx, group, account)
	if err != nil {
		return nil, err
	}

	credential, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage credential: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL(account), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build blob client: %w", err)
	}

	if _, err := client.CreateContainer(ctx, constants.PackageContainer, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("failed to create container %s: %w", constants.PackageContainer, err)
		}
	}

	file, err := os.Open(packagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package %s: %w", packagePath, err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()

	if _, err := client.UploadFile(ctx, constants.PackageContainer, blobName, file, nil); err != nil {
		return nil, fmt.Errorf("failed to upload package: %w", err)
	}

	query, err := packageSAS(credential, blobName)
	if err != nil {
		return nil, err
	}

	blobURL := fmt.Sprintf("%s/%s/%s", serviceURL(account), constants.PackageContainer, blobName)
	return &PackageLocation{
		BlobURL: blobURL,
		SASURL:  blobURL + "?" + query,
	}, nil
}

func serviceURL(account string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net", account)
}

// packageSAS signs a long-lived read-only SAS scoped to the uploaded blob.
func packageSAS(credential *azblob.SharedKeyCredential, blobName string) (string, error) {
	now := time.Now().UTC()
	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-10 * time.Minute),
		ExpiryTime:    now.Add(packageSASValidity),
		Permissions:   (&sas.BlobPermissions{Read: true}).String(),
		ContainerName: constants.PackageContainer,
		BlobName:      blobName,
	}
	query, err := values.SignWithSharedKey(credential)
	if err != nil {
		return "", fmt.Errorf("failed to sign package SAS: %w", err)
	}
	return query.Encode(), nil
}
